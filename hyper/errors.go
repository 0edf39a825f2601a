package hyper

import "errors"

// Errors reported by the transform engine. Callers match them with errors.Is;
// the engine wraps them with the offending values.
var (
	ErrInvalidNumber         = errors.New("hyper: invalid number")
	ErrDivisionBySingularity = errors.New("hyper: division by singularity")
	ErrOutsideDisk           = errors.New("hyper: point is not inside the unit disk")
	ErrInvalidTiling         = errors.New("hyper: invalid tiling")
	ErrInvalidTriangle       = errors.New("hyper: invalid triangle")
	ErrTargetTooClose        = errors.New("hyper: target too close to aim at")
)
