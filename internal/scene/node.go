package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// MeshKind selects the primitive a node draws.
type MeshKind uint8

const (
	BoxMesh MeshKind = iota
	SphereMesh
)

// Mesh is a primitive in node-local space. Box extents are full edge
// lengths; a sphere uses Size.X as its diameter.
type Mesh struct {
	Kind   MeshKind
	Size   mgl64.Vec3
	Center mgl64.Vec3
}

// Node is one element of the character tree. Position, Rotation and Scale
// are the posed local transform; Rest is where the node sits when
// unposed. Children are owned by exactly one parent.
type Node struct {
	Name     string
	Rest     mgl64.Vec3
	Position mgl64.Vec3
	Rotation mgl64.Vec3 // Euler XYZ, radians
	Scale    mgl64.Vec3
	Mesh     *Mesh
	Color    colorful.Color
	Emissive bool
	Children []*Node

	parent *Node
}

func NewNode(name string, rest mgl64.Vec3) *Node {
	return &Node{Name: name, Rest: rest, Position: rest, Scale: mgl64.Vec3{1, 1, 1}}
}

// Box creates a node drawing a colored box centered at center.
func Box(name string, rest, size, center mgl64.Vec3, c colorful.Color) *Node {
	n := NewNode(name, rest)
	n.Mesh = &Mesh{Kind: BoxMesh, Size: size, Center: center}
	n.Color = c
	return n
}

// Add attaches c, detaching it from any previous parent first.
func (n *Node) Add(c *Node) *Node {
	if c.parent != nil {
		c.parent.Remove(c)
	}
	c.parent = n
	n.Children = append(n.Children, c)
	return n
}

// Remove detaches c and reports whether it was a child of n.
func (n *Node) Remove(c *Node) bool {
	for i, ch := range n.Children {
		if ch == c {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			c.parent = nil
			return true
		}
	}
	return false
}

func (n *Node) Parent() *Node { return n.parent }

// Reset returns the node to its rest transform.
func (n *Node) Reset() {
	n.Position = n.Rest
	n.Rotation = mgl64.Vec3{}
	n.Scale = mgl64.Vec3{1, 1, 1}
}

// Local is the node transform relative to its parent.
func (n *Node) Local() mgl64.Mat4 {
	r := n.Rotation
	return mgl64.Translate3D(n.Position[0], n.Position[1], n.Position[2]).
		Mul4(mgl64.HomogRotate3DX(r[0])).
		Mul4(mgl64.HomogRotate3DY(r[1])).
		Mul4(mgl64.HomogRotate3DZ(r[2])).
		Mul4(mgl64.Scale3D(n.Scale[0], n.Scale[1], n.Scale[2]))
}

// World composes the transforms from the root down to n.
func (n *Node) World() mgl64.Mat4 {
	if n.parent == nil {
		return n.Local()
	}
	return n.parent.World().Mul4(n.Local())
}

// Walk visits n and its descendants depth first with their world matrices.
func (n *Node) Walk(fn func(*Node, mgl64.Mat4)) {
	n.walk(mgl64.Ident4(), fn)
}

func (n *Node) walk(parent mgl64.Mat4, fn func(*Node, mgl64.Mat4)) {
	w := parent.Mul4(n.Local())
	fn(n, w)
	for _, c := range n.Children {
		c.walk(w, fn)
	}
}

// Find returns the first descendant (or n itself) with the given name.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.Children {
		if f := c.Find(name); f != nil {
			return f
		}
	}
	return nil
}
