// Package scene builds tiling.WorldMaps: from YAML scene files, from a
// {sides, order} pair, or by name from the built-in set.
package scene

import (
	"errors"
	"fmt"
	"image"
	_ "image/jpeg" // image formats for markers
	_ "image/png"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
	"gopkg.in/yaml.v3"

	"hypertile/hyper"
	"hypertile/render"
	"hypertile/tiling"
)

var ErrInvalidScene = errors.New("scene: invalid")

// Scene is a WorldMap and the anchor to start walking from.
type Scene struct {
	Name  string
	Start string
	Map   tiling.WorldMap
}

// Point is a disk coordinate written as [x, y].
type Point [2]float64

// Complex validates p as a point of the closed disk.
func (p Point) Complex() (hyper.Complex, error) {
	z, err := hyper.New(p[0], p[1])
	if err != nil {
		return z, err
	}
	if z.MagSq() > 1 {
		return z, fmt.Errorf("%w: %v", hyper.ErrOutsideDisk, z)
	}
	return z, nil
}

// File is the YAML layout of a scene file.
type File struct {
	Name    string       `yaml:"name"`
	Start   string       `yaml:"start"`
	Regular *RegularSpec `yaml:"regular"`
	Anchors []AnchorSpec `yaml:"anchors"`
}

// RegularSpec asks for a generated {sides, order} tiling instead of
// listing anchors.
type RegularSpec struct {
	Sides  int    `yaml:"sides"`
	Order  int    `yaml:"order"`
	Fill   string `yaml:"fill"`
	Stroke string `yaml:"stroke"`
}

type AnchorSpec struct {
	ID        string     `yaml:"id"`
	Neighbors []EdgeSpec `yaml:"neighbors"`
	Draw      []DrawSpec `yaml:"draw"`
}

type EdgeSpec struct {
	ID                     string `yaml:"id"`
	tiling.FrameTransition `yaml:",inline"`
}

// DrawSpec is one drawing instruction; exactly one of Poly, Line and
// Marker is set.
type DrawSpec struct {
	Poly   []Point `yaml:"poly"`
	Line   []Point `yaml:"line"`
	Marker *Point  `yaml:"marker"`
	Image  string  `yaml:"image"`
	Fill   string  `yaml:"fill"`
	Stroke string  `yaml:"stroke"`
	Width  float64 `yaml:"width"`
}

// Load reads a scene file. Marker images are resolved relative to it.
func Load(filename string) (Scene, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return Scene{}, fmt.Errorf("failed to read scene: %w", err)
	}
	sc, err := Parse(data, os.DirFS(filepath.Dir(filename)))
	if err != nil {
		return Scene{}, fmt.Errorf("%s: %w", filename, err)
	}
	if sc.Name == "" {
		sc.Name = filepath.Base(filename)
	}
	return sc, nil
}

// Parse builds a scene from YAML. Marker images are read from fsys, which
// may be nil when the scene has none.
func Parse(data []byte, fsys fs.FS) (Scene, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Scene{}, fmt.Errorf("failed to parse scene: %w", err)
	}
	return f.Build(fsys)
}

// Build turns the parsed file into a Scene.
func (f File) Build(fsys fs.FS) (Scene, error) {
	if f.Regular != nil {
		if len(f.Anchors) > 0 {
			return Scene{}, fmt.Errorf("%w: regular and anchors are exclusive", ErrInvalidScene)
		}
		st, err := polyStyle(f.Regular.Fill, f.Regular.Stroke, 0)
		if err != nil {
			return Scene{}, err
		}
		sc, err := Regular(f.Regular.Sides, f.Regular.Order, st)
		if err != nil {
			return Scene{}, err
		}
		if f.Name != "" {
			sc.Name = f.Name
		}
		return sc, nil
	}

	if len(f.Anchors) == 0 {
		return Scene{}, fmt.Errorf("%w: no anchors", ErrInvalidScene)
	}
	images := imageCache{fsys: fsys, loaded: map[string]image.Image{}}
	wm := tiling.WorldMap{}
	for _, as := range f.Anchors {
		if as.ID == "" {
			return Scene{}, fmt.Errorf("%w: anchor without id", ErrInvalidScene)
		}
		if _, dup := wm[as.ID]; dup {
			return Scene{}, fmt.Errorf("%w: duplicate anchor %q", ErrInvalidScene, as.ID)
		}
		a, err := as.build(&images)
		if err != nil {
			return Scene{}, fmt.Errorf("anchor %q: %w", as.ID, err)
		}
		wm.Add(a)
	}
	if err := wm.Validate(); err != nil {
		return Scene{}, err
	}
	start := f.Start
	if start == "" {
		start = f.Anchors[0].ID
	}
	if _, ok := wm[start]; !ok {
		return Scene{}, fmt.Errorf("%w: start %q", tiling.ErrUnknownAnchor, start)
	}
	return Scene{Name: f.Name, Start: start, Map: wm}, nil
}

func (as AnchorSpec) build(images *imageCache) (*tiling.Anchor, error) {
	a := &tiling.Anchor{ID: as.ID}
	for _, e := range as.Neighbors {
		if err := e.FrameTransition.Validate(); err != nil {
			return nil, fmt.Errorf("neighbor %q: %w", e.ID, err)
		}
		a.Neighbors = append(a.Neighbors, tiling.Edge{ID: e.ID, Transition: e.FrameTransition})
	}
	var ops []func(render.Drawer)
	for i, ds := range as.Draw {
		op, err := ds.build(images)
		if err != nil {
			return nil, fmt.Errorf("draw[%d]: %w", i, err)
		}
		ops = append(ops, op)
	}
	if len(ops) > 0 {
		a.Draw = func(d render.Drawer) {
			for _, op := range ops {
				op(d)
			}
		}
	}
	return a, nil
}

func (ds DrawSpec) build(images *imageCache) (func(render.Drawer), error) {
	set := 0
	for _, b := range []bool{ds.Poly != nil, ds.Line != nil, ds.Marker != nil} {
		if b {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("%w: need exactly one of poly, line, marker", ErrInvalidScene)
	}

	switch {
	case ds.Poly != nil:
		pts, err := points(ds.Poly)
		if err != nil {
			return nil, err
		}
		if len(pts) < 2 {
			return nil, fmt.Errorf("%w: poly needs at least 2 points", ErrInvalidScene)
		}
		st, err := polyStyle(ds.Fill, ds.Stroke, ds.Width)
		if err != nil {
			return nil, err
		}
		return func(d render.Drawer) { d.DrawPoly(pts, st) }, nil

	case ds.Line != nil:
		pts, err := points(ds.Line)
		if err != nil {
			return nil, err
		}
		if len(pts) != 2 {
			return nil, fmt.Errorf("%w: line needs 2 points", ErrInvalidScene)
		}
		st, err := render.ParseStyle(ds.Stroke)
		if err != nil {
			return nil, err
		}
		if ds.Width > 0 {
			if st.IsZero() {
				st = render.MustStyle("black")
			}
			st = st.WithWidth(ds.Width)
		}
		return func(d render.Drawer) { d.DrawLine(pts[0], pts[1], st) }, nil

	default:
		p, err := ds.Marker.Complex()
		if err != nil {
			return nil, err
		}
		img, err := images.get(ds.Image)
		if err != nil {
			return nil, err
		}
		return func(d render.Drawer) { d.DrawImage(p, img) }, nil
	}
}

func points(ps []Point) ([]hyper.Complex, error) {
	out := make([]hyper.Complex, len(ps))
	for i, p := range ps {
		z, err := p.Complex()
		if err != nil {
			return nil, err
		}
		out[i] = z
	}
	return out, nil
}

func polyStyle(fill, stroke string, width float64) (render.PolyStyle, error) {
	f, err := render.ParseStyle(fill)
	if err != nil {
		return render.PolyStyle{}, err
	}
	s, err := render.ParseStyle(stroke)
	if err != nil {
		return render.PolyStyle{}, err
	}
	if width > 0 && !s.IsZero() {
		s = s.WithWidth(width)
	}
	return render.PolyStyle{Fill: f, Stroke: s}, nil
}

// imageCache decodes each marker image once per scene.
type imageCache struct {
	fsys   fs.FS
	loaded map[string]image.Image
}

func (c *imageCache) get(name string) (image.Image, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: marker without image", ErrInvalidScene)
	}
	name = path.Clean(filepath.ToSlash(name))
	if img, ok := c.loaded[name]; ok {
		return img, nil
	}
	if c.fsys == nil {
		return nil, fmt.Errorf("%w: no directory to load %q from", ErrInvalidScene, name)
	}
	r, err := c.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("marker image: %w", err)
	}
	defer r.Close()
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("marker image %q: %w", name, err)
	}
	c.loaded[name] = img
	return img, nil
}
