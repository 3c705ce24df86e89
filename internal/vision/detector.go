// Package vision orchestrates ball detection across frames.
//
// Two injected detector capabilities are combined: a slow wide-area
// acquisition detector that can find the ball anywhere in the frame, and a
// fast local detector restricted to a tracking region. The pipeline decides
// per frame which to run and maintains the region of interest; it performs
// no image analysis itself.
package vision

// Frame is an opaque handle to one camera frame. The pipeline never inspects
// it; it is passed through unchanged to the injected detectors.
type Frame interface{}

// Point is a 2D pixel coordinate.
type Point struct {
	X float64
	Y float64
}

// Rect is an axis-aligned rectangle in pixel space.
type Rect struct {
	X float64 // left edge
	Y float64 // top edge
	W float64
	H float64
}

// Expand grows the rectangle by margin on every side, clamping the origin
// at zero.
func (r Rect) Expand(margin float64) Rect {
	out := Rect{
		X: r.X - margin,
		Y: r.Y - margin,
		W: r.W + 2*margin,
		H: r.H + 2*margin,
	}
	if out.X < 0 {
		out.W += out.X
		out.X = 0
	}
	if out.Y < 0 {
		out.H += out.Y
		out.Y = 0
	}
	return out
}

// Center returns the rectangle's centre point.
func (r Rect) Center() Point {
	return Point{X: r.X + r.W/2, Y: r.Y + r.H/2}
}

// Contains reports whether the point lies inside the rectangle.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.W && p.Y >= r.Y && p.Y <= r.Y+r.H
}

// Detection is one frame's ball observation from a detector.
type Detection struct {
	Center Point
	Radius float64
}

// WideDetector is the slow wide-area acquisition capability. It may be
// backed by a learned model that failed to load; Available reports whether
// the capability can be used at all, and the pipeline degrades silently to
// local-only search when it cannot.
type WideDetector interface {
	Available() bool
	// Detect searches the whole frame and returns the ball's bounding box,
	// or nil when the ball is not found. Repeated calls must be idempotent.
	Detect(frame Frame) (*Rect, error)
}

// LocalDetector is the fast region-limited capability. A nil region means
// full-frame search. Returns nil when no ball is found; that is the normal
// "not visible" signal, not an error.
type LocalDetector interface {
	Detect(frame Frame, region *Rect) (*Detection, error)
}
