package raster

import (
	"errors"
	"math"

	"render-core/grerr"
	remath "render-core/math"
	"render-core/rlog"
)

// CommandKind tags a stage-1 modeling command (§4.1).
type CommandKind int

const (
	CmdTranslate CommandKind = iota
	CmdScale
	CmdRotate
	CmdPush
	CmdPop
	CmdTriangle
)

// Command is one instruction in the stage-1 modeling stream.
type Command struct {
	Kind CommandKind

	// Translate / Scale
	X, Y, Z float64

	// Rotate
	Degrees    float64
	AX, AY, AZ float64

	// Triangle
	V1, V2, V3 remath.Vec3
}

func Translate(tx, ty, tz float64) Command {
	return Command{Kind: CmdTranslate, X: tx, Y: ty, Z: tz}
}

func Scale(sx, sy, sz float64) Command {
	return Command{Kind: CmdScale, X: sx, Y: sy, Z: sz}
}

func Rotate(degrees, ax, ay, az float64) Command {
	return Command{Kind: CmdRotate, Degrees: degrees, AX: ax, AY: ay, AZ: az}
}

func Push() Command { return Command{Kind: CmdPush} }
func Pop() Command  { return Command{Kind: CmdPop} }

func TriangleCmd(v1, v2, v3 remath.Vec3) Command {
	return Command{Kind: CmdTriangle, V1: v1, V2: v2, V3: v3}
}

// stack is the stage-1 transform stack. The initial stack holds the
// identity and is never allowed to become empty (§3 invariant, §7
// StackUnderflow is a silent no-op, not an error).
type stack struct {
	frames []remath.Mat4
}

func newStack() *stack {
	return &stack{frames: []remath.Mat4{remath.Mat4Identity()}}
}

func (s *stack) top() remath.Mat4 {
	return s.frames[len(s.frames)-1]
}

func (s *stack) push() {
	s.frames = append(s.frames, s.top())
}

func (s *stack) pop() {
	if len(s.frames) <= 1 {
		return // silent no-op per §7 StackUnderflow
	}
	s.frames = s.frames[:len(s.frames)-1]
}

// replaceTop post-multiplies the top of the stack by t: top <- top * t.
func (s *stack) replaceTop(t remath.Mat4) {
	s.frames[len(s.frames)-1] = s.top().Mul(t)
}

// Model runs the stage-1 modeling command stream (§4.1) and returns the
// resulting world-space triangles. A command stream need not end with an
// explicit "end" marker; the caller simply stops appending commands.
func Model(commands []Command) ([]Triangle, error) {
	s := newStack()
	var triangles []Triangle

	for _, cmd := range commands {
		switch cmd.Kind {
		case CmdPush:
			s.push()
		case CmdPop:
			s.pop()
		case CmdTranslate:
			s.replaceTop(remath.Mat4Translation(remath.NewVec3(cmd.X, cmd.Y, cmd.Z)))
		case CmdScale:
			s.replaceTop(remath.Mat4Scale(remath.NewVec3(cmd.X, cmd.Y, cmd.Z)))
		case CmdRotate:
			axis := remath.NewVec3(cmd.AX, cmd.AY, cmd.AZ)
			s.replaceTop(remath.Mat4Rotation(axis, cmd.Degrees))
		case CmdTriangle:
			m := s.top()
			tri := Triangle{V: [3]remath.Vec3{
				m.ApplyPoint(cmd.V1),
				m.ApplyPoint(cmd.V2),
				m.ApplyPoint(cmd.V3),
			}}
			if err := checkFiniteTriangle(tri); err != nil {
				return nil, grerr.Wrap(grerr.DegenerateTransform,
					"stage 1 produced a non-finite vertex", err)
			}
			triangles = append(triangles, tri)
		default:
			return nil, grerr.New(grerr.MalformedScene,
				"unrecognized modeling command")
		}
	}

	rlog.Logger().Debug("stage 1 modeling complete", "triangles", len(triangles))
	return triangles, nil
}

func checkFiniteTriangle(t Triangle) error {
	for _, v := range t.V {
		if !finite(v.X) || !finite(v.Y) || !finite(v.Z) {
			return errNonFinite
		}
	}
	return nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

var errNonFinite = errors.New("non-finite vertex component (NaN or Inf)")
