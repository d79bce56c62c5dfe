package geometry

import "github.com/banshee-data/plykit/internal/ply"

// PointCloud is a set of vertices with optional normals, colors and texture
// coordinates.
type PointCloud struct {
	*Geometry
}

// Mesh is a point cloud with triangle or polygon faces of fixed arity.
type Mesh struct {
	PointCloud
}

var PointCloudSpec = Define[PointCloud]("PointCloud", nil,
	VertexField("points", []string{"x", "y", "z"}, Required()),
	VertexField("normals", []string{"nx", "ny", "nz"}),
	VertexField("colors", []string{"red", "green", "blue"}),
	VertexField("uv", []string{"s", "t"}),
)

var MeshSpec = Define[Mesh]("Mesh", PointCloudSpec,
	Field("faces", "face", []string{"vertex_index"}, List(), Required()),
)

// NewPointCloud builds a point cloud from field buffers.
func NewPointCloud(values map[string]*ply.Buffer) (*PointCloud, error) {
	g, err := PointCloudSpec.New(values)
	if err != nil {
		return nil, err
	}
	return &PointCloud{Geometry: g}, nil
}

// LoadPointCloud reads a point cloud with codec c. A nil codec uses the
// default one.
func LoadPointCloud(c *ply.Codec, path string) (*PointCloud, error) {
	g, err := PointCloudSpec.LoadWith(codecOrDefault(c), path)
	if err != nil {
		return nil, err
	}
	return &PointCloud{Geometry: g}, nil
}

func (p *PointCloud) Points() *ply.Buffer   { return p.Field("points").OrNil() }
func (p *PointCloud) Normals() ply.Optional { return p.Field("normals") }
func (p *PointCloud) Colors() ply.Optional  { return p.Field("colors") }
func (p *PointCloud) UV() ply.Optional      { return p.Field("uv") }

// NumVertices returns the number of points.
func (p *PointCloud) NumVertices() int {
	if b := p.Points(); b != nil {
		return b.Rows()
	}
	return 0
}

// NewMesh builds a mesh from field buffers.
func NewMesh(values map[string]*ply.Buffer) (*Mesh, error) {
	g, err := MeshSpec.New(values)
	if err != nil {
		return nil, err
	}
	return &Mesh{PointCloud{Geometry: g}}, nil
}

// LoadMesh reads a mesh with codec c. A nil codec uses the default one.
func LoadMesh(c *ply.Codec, path string) (*Mesh, error) {
	g, err := MeshSpec.LoadWith(codecOrDefault(c), path)
	if err != nil {
		return nil, err
	}
	return &Mesh{PointCloud{Geometry: g}}, nil
}

// Faces returns the (M, k) vertex index buffer.
func (m *Mesh) Faces() *ply.Buffer { return m.Field("faces").OrNil() }

// NumFaces returns the number of faces.
func (m *Mesh) NumFaces() int {
	if b := m.Faces(); b != nil {
		return b.Rows()
	}
	return 0
}

func codecOrDefault(c *ply.Codec) *ply.Codec {
	if c == nil {
		return ply.DefaultCodec()
	}
	return c
}
