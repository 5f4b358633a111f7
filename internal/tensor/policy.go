package tensor

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Complexity score weights. The score is a tunable latency heuristic, not a
// correctness contract: any policy yields identical element values.
const (
	scoreNonContiguous  = 40
	scoreSpreadCap      = 30
	scoreSpreadDivisor  = 10
	scorePerExtraDim    = 5
	scoreLargeTensor    = 15
	scoreIrregular      = 20
	scoreMax            = 100
	largeTensorElements = 10_000
)

// Policy decides whether a view is copied into dense storage or kept lazy.
type Policy struct {
	// ScoreThreshold: views scoring above it are materialized.
	ScoreThreshold int `yaml:"score_threshold"`

	// SizeThreshold: views with more elements than this are materialized.
	SizeThreshold int `yaml:"size_threshold"`

	// ForceView keeps every view lazy.
	ForceView bool `yaml:"force_view"`

	// ForceCopy materializes every view.
	ForceCopy bool `yaml:"force_copy"`

	// Logger receives decisions at debug level. Nil discards them.
	Logger logrus.FieldLogger `yaml:"-"`
}

// DefaultPolicy returns the default thresholds.
func DefaultPolicy() Policy {
	return Policy{
		ScoreThreshold: 75,
		SizeThreshold:  1 << 20,
	}
}

// ParsePolicy reads a YAML policy document. Omitted fields keep their defaults.
//
//	score_threshold: 60
//	size_threshold: 100000
//	force_copy: true
func ParsePolicy(data []byte) (Policy, error) {
	p := DefaultPolicy()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Policy{}, errors.Wrapf(ErrInvalidArgument, "parse policy: %v", err)
	}
	if err := p.Validate(); err != nil {
		return Policy{}, err
	}
	return p, nil
}

// Validate checks thresholds and the mutually exclusive force flags.
func (p Policy) Validate() error {
	if p.ForceView && p.ForceCopy {
		return invalidf("policy: force_view and force_copy are mutually exclusive")
	}
	if p.ScoreThreshold < 0 || p.ScoreThreshold > scoreMax {
		return invalidf("policy: score_threshold %d outside [0, %d]", p.ScoreThreshold, scoreMax)
	}
	if p.SizeThreshold < 0 {
		return invalidf("policy: size_threshold %d < 0", p.SizeThreshold)
	}
	return nil
}

// Decision is the outcome of Policy.Decide.
type Decision struct {
	Materialize bool
	Score       int
	Reason      string
}

// ComplexityScore rates how expensive lazy access through l is, in [0, 100].
//
//	+40 when not contiguous
//	+(max stride - min stride)/10, at most 30
//	+5 per dimension beyond the first
//	+15 when the volume exceeds 10000 elements
//	+20 when the strides are irregular (some stride larger than the one before it)
func ComplexityScore(l Layout) int {
	shape := l.Shape()
	strides := l.Strides()
	score := 0

	if !l.IsContiguous() {
		score += scoreNonContiguous
	}

	if len(strides) > 0 {
		lo, hi := strides[0], strides[0]
		for _, s := range strides[1:] {
			lo = min(lo, s)
			hi = max(hi, s)
		}
		score += min((hi-lo)/scoreSpreadDivisor, scoreSpreadCap)
	}

	if len(shape) > 1 {
		score += scorePerExtraDim * (len(shape) - 1)
	}

	if shape.Volume() > largeTensorElements {
		score += scoreLargeTensor
	}

	if irregularStrides(strides) {
		score += scoreIrregular
	}

	return min(score, scoreMax)
}

// irregularStrides reports whether strides are not monotonically non-increasing.
func irregularStrides(strides []int) bool {
	for i := 1; i < len(strides); i++ {
		if strides[i] > strides[i-1] {
			return true
		}
	}
	return false
}

// Decide scores l and decides whether to materialize it.
func (p Policy) Decide(l Layout) (Decision, error) {
	if err := p.Validate(); err != nil {
		return Decision{}, err
	}

	score := ComplexityScore(l)
	volume := l.Shape().Volume()
	var d Decision
	switch {
	case p.ForceCopy:
		d = Decision{Materialize: true, Score: score, Reason: "force_copy"}
	case p.ForceView:
		d = Decision{Materialize: false, Score: score, Reason: "force_view"}
	case score > p.ScoreThreshold:
		d = Decision{Materialize: true, Score: score, Reason: "score above threshold"}
	case volume > p.SizeThreshold:
		d = Decision{Materialize: true, Score: score, Reason: "volume above threshold"}
	default:
		d = Decision{Materialize: false, Score: score, Reason: "within thresholds"}
	}

	p.logger().WithFields(logrus.Fields{
		"score":       d.Score,
		"volume":      volume,
		"materialize": d.Materialize,
		"reason":      d.Reason,
	}).Debug("materialization decision")
	return d, nil
}

func (p Policy) logger() logrus.FieldLogger {
	if p.Logger != nil {
		return p.Logger
	}
	return discardLogger
}

var discardLogger = func() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}()

// Apply returns d unchanged when the policy keeps it lazy (or it is already
// dense), and a dense copy otherwise.
func Apply[V Value](p Policy, d Data[V]) (Data[V], error) {
	if d.Kind() == KindDense {
		return d, nil
	}
	decision, err := p.Decide(d)
	if err != nil {
		return nil, err
	}
	if !decision.Materialize {
		return d, nil
	}
	dense, err := d.Materialize()
	if err != nil {
		return nil, err
	}
	return dense, nil
}
