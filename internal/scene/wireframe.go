package scene

import (
	"math"
	"sort"

	"github.com/go-gl/mathgl/mgl64"
	colorful "github.com/lucasb-eyer/go-colorful"
)

type Edge struct {
	Start, End mgl64.Vec3
	Color      colorful.Color
	Node       string
}

type Wireframe struct{ Edges []Edge }

func (w *Wireframe) AddEdge(s, e mgl64.Vec3, c colorful.Color, node string) {
	w.Edges = append(w.Edges, Edge{s, e, c, node})
}

// Offset moves every edge by d world units.
func (w Wireframe) Offset(d mgl64.Vec3) Wireframe {
	out := Wireframe{Edges: make([]Edge, len(w.Edges))}
	for i, e := range w.Edges {
		e.Start, e.End = e.Start.Add(d), e.End.Add(d)
		out.Edges[i] = e
	}
	return out
}

// Dim blends every edge color toward bg.
func (w Wireframe) Dim(bg colorful.Color, amount float64) Wireframe {
	amount = math.Max(0, math.Min(1, amount))
	out := Wireframe{Edges: make([]Edge, len(w.Edges))}
	for i, e := range w.Edges {
		e.Color = e.Color.BlendLab(bg, amount).Clamped()
		out.Edges[i] = e
	}
	return out
}

var (
	boxCorners = [8]mgl64.Vec3{
		{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
		{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
	}
	boxEdges = [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
)

const sphereSegments = 12

// Wireframe returns the world-space edges of every mesh in the rig.
func (r *Rig) Wireframe() Wireframe {
	var w Wireframe
	r.Root.Walk(func(n *Node, m mgl64.Mat4) {
		if n.Mesh == nil {
			return
		}
		switch n.Mesh.Kind {
		case BoxMesh:
			addBox(&w, n, m)
		case SphereMesh:
			addSphere(&w, n, m)
		}
	})
	return w
}

func addBox(w *Wireframe, n *Node, m mgl64.Mat4) {
	half := n.Mesh.Size.Mul(0.5)
	var pts [8]mgl64.Vec3
	for i, c := range boxCorners {
		local := n.Mesh.Center.Add(mgl64.Vec3{c[0] * half[0], c[1] * half[1], c[2] * half[2]})
		pts[i] = mgl64.TransformCoordinate(local, m)
	}
	for _, e := range boxEdges {
		w.AddEdge(pts[e[0]], pts[e[1]], n.Color, n.Name)
	}
}

// addSphere draws three great circles.
func addSphere(w *Wireframe, n *Node, m mgl64.Mat4) {
	r := n.Mesh.Size[0] / 2
	ring := func(axis int) {
		var prev mgl64.Vec3
		for i := 0; i <= sphereSegments; i++ {
			a := 2 * math.Pi * float64(i) / sphereSegments
			u, v := r*math.Cos(a), r*math.Sin(a)
			var p mgl64.Vec3
			switch axis {
			case 0:
				p = mgl64.Vec3{0, u, v}
			case 1:
				p = mgl64.Vec3{u, 0, v}
			default:
				p = mgl64.Vec3{u, v, 0}
			}
			p = mgl64.TransformCoordinate(n.Mesh.Center.Add(p), m)
			if i > 0 {
				w.AddEdge(prev, p, n.Color, n.Name)
			}
			prev = p
		}
	}
	for axis := 0; axis < 3; axis++ {
		ring(axis)
	}
}

// Surface receives projected lines in pixel coordinates.
type Surface interface {
	Size() (w, h int)
	Line(x0, y0, x1, y1 float64, c colorful.Color)
}

type projectedEdge struct {
	x1, y1, x2, y2 float64
	depth          float64
	color          colorful.Color
}

// Render draws the wireframe with a painter's algorithm: farthest edges
// first. Edges with an endpoint behind the camera are skipped.
func Render(s Surface, w Wireframe, cam *Camera) {
	if s == nil || cam == nil {
		return
	}
	sw, sh := s.Size()
	proj := make([]projectedEdge, 0, len(w.Edges))
	for _, e := range w.Edges {
		x1, y1, d1, ok1 := cam.Project(e.Start, sw, sh)
		x2, y2, d2, ok2 := cam.Project(e.End, sw, sh)
		if ok1 && ok2 {
			proj = append(proj, projectedEdge{x1, y1, x2, y2, (d1 + d2) / 2, e.Color})
		}
	}
	sort.SliceStable(proj, func(i, j int) bool { return proj[i].depth > proj[j].depth })
	for _, e := range proj {
		s.Line(e.x1, e.y1, e.x2, e.y2, e.color)
	}
}
