package config

import (
	"fmt"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/banshee-data/plykit/internal/fsutil"
	"github.com/banshee-data/plykit/internal/ply"
)

// CodecConfig holds the settings the CLI passes to the PLY codec. Every field
// is optional; the Get* methods supply defaults for fields left unset.
type CodecConfig struct {
	// Body encoding for writes: "" (host binary order), "ascii",
	// "binary_little_endian" or "binary_big_endian".
	WriteFormat *string `json:"write_format,omitempty"`

	// Emitted as comment lines on every write.
	Comments []string `json:"comments,omitempty"`

	FloatMatrixElement      *string `json:"float_matrix_element,omitempty"`
	ParallelExtractMinBytes *int    `json:"parallel_extract_min_bytes,omitempty"`

	LogLevel *string `json:"log_level,omitempty"`
}

const maxConfigSize = 1 * 1024 * 1024 // 1MB

// EmptyCodecConfig returns a CodecConfig with all fields unset.
func EmptyCodecConfig() *CodecConfig {
	return &CodecConfig{}
}

// LoadCodecConfig loads a CodecConfig from a JSON file.
// The file must have a .json extension and be under 1MB. Fields omitted from
// the file keep their defaults.
func LoadCodecConfig(path string) (*CodecConfig, error) {
	return LoadCodecConfigFS(fsutil.OSFileSystem{}, path)
}

// LoadCodecConfigFS is LoadCodecConfig reading from fsys.
func LoadCodecConfigFS(fsys fsutil.FileSystem, path string) (*CodecConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := fsys.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if fileInfo.Size() > maxConfigSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxConfigSize)
	}

	data, err := fsys.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyCodecConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *CodecConfig) Validate() error {
	if c.WriteFormat != nil && *c.WriteFormat != "" {
		if _, ok := ply.ParseFormat(*c.WriteFormat); !ok {
			return fmt.Errorf("unknown write_format %q", *c.WriteFormat)
		}
	}

	if c.FloatMatrixElement != nil {
		name := *c.FloatMatrixElement
		if name == "" || strings.ContainsAny(name, " \t\r\n") {
			return fmt.Errorf("invalid float_matrix_element %q", name)
		}
	}

	if c.ParallelExtractMinBytes != nil && *c.ParallelExtractMinBytes < 0 {
		return fmt.Errorf("parallel_extract_min_bytes must be non-negative, got %d", *c.ParallelExtractMinBytes)
	}

	for _, comment := range c.Comments {
		if strings.ContainsAny(comment, "\r\n") {
			return fmt.Errorf("comment %q spans more than one line", comment)
		}
	}

	if c.LogLevel != nil && *c.LogLevel != "" {
		if _, err := zerolog.ParseLevel(*c.LogLevel); err != nil {
			return fmt.Errorf("invalid log_level %q: %w", *c.LogLevel, err)
		}
	}
	return nil
}

// GetWriteFormat returns the write format, or ply.FormatUnknown for host
// byte order.
func (c *CodecConfig) GetWriteFormat() ply.Format {
	if c.WriteFormat == nil {
		return ply.FormatUnknown
	}
	f, _ := ply.ParseFormat(*c.WriteFormat)
	return f
}

// GetFloatMatrixElement returns the float_matrix_element value or the default.
func (c *CodecConfig) GetFloatMatrixElement() string {
	if c.FloatMatrixElement == nil {
		return "vertex"
	}
	return *c.FloatMatrixElement
}

// GetParallelExtractMinBytes returns the parallel_extract_min_bytes value or
// the default.
func (c *CodecConfig) GetParallelExtractMinBytes() int {
	if c.ParallelExtractMinBytes == nil {
		return ply.DefaultParallelExtractMinBytes
	}
	return *c.ParallelExtractMinBytes
}

// GetLogLevel returns the log_level value or the default.
func (c *CodecConfig) GetLogLevel() string {
	if c.LogLevel == nil || *c.LogLevel == "" {
		return "info"
	}
	return *c.LogLevel
}

// Options converts the configuration to codec options.
func (c *CodecConfig) Options() ply.Options {
	return ply.Options{
		Format:                  c.GetWriteFormat(),
		Comments:                append([]string(nil), c.Comments...),
		FloatMatrixElement:      c.GetFloatMatrixElement(),
		ParallelExtractMinBytes: c.GetParallelExtractMinBytes(),
	}
}
