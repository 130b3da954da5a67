package report

import (
	"regexp"
	"slices"
	"strconv"

	"github.com/hupe1980/packedset/internal/bench"
)

// WordContainer is the container tag of the word suite.
const WordContainer = bench.WordContainer

var nameRE = regexp.MustCompile(`^(?:BM_)?([A-Za-z]\w*?)_([A-Za-z]\w*)(?:/(\d+))?$`)

// Name is a parsed benchmark name.
type Name struct {
	Op        string
	Container string
	// Param is the numeric suffix: the element count in the comparison
	// suite, the bit width in the word suite.
	Param    int
	HasParam bool
}

// ParseName splits "Op_Container[/param]". A leading "BM_" is ignored.
func ParseName(name string) (Name, bool) {
	m := nameRE.FindStringSubmatch(name)
	if m == nil {
		return Name{}, false
	}
	n := Name{Op: m[1], Container: m[2]}
	if m[3] != "" {
		p, err := strconv.Atoi(m[3])
		if err != nil {
			return Name{}, false
		}
		n.Param, n.HasParam = p, true
	}
	return n, true
}

// Point is a record with its parsed name.
type Point struct {
	Name
	Record bench.Record
}

// Groups holds records by operation, in first-seen order.
type Groups struct {
	Ops     []string
	ByOp    map[string][]Point
	Skipped []string
}

// Group parses every record name. Records that do not parse are listed
// in Skipped; keep selects the points to retain.
func Group(records []bench.Record, keep func(Name) bool) Groups {
	g := Groups{ByOp: map[string][]Point{}}
	for _, r := range records {
		n, ok := ParseName(r.Name)
		if !ok {
			g.Skipped = append(g.Skipped, r.Name)
			continue
		}
		if keep != nil && !keep(n) {
			continue
		}
		if _, seen := g.ByOp[n.Op]; !seen {
			g.Ops = append(g.Ops, n.Op)
		}
		g.ByOp[n.Op] = append(g.ByOp[n.Op], Point{Name: n, Record: r})
	}
	return g
}

// IsComparison selects the comparison suite.
func IsComparison(n Name) bool { return n.Container != WordContainer }

// IsWord selects the word suite.
func IsWord(n Name) bool { return n.Container == WordContainer && n.HasParam }

// Params returns the sorted distinct params across all points.
func (g Groups) Params() []int {
	var out []int
	for _, op := range g.Ops {
		for _, p := range g.ByOp[op] {
			if p.HasParam && !slices.Contains(out, p.Param) {
				out = append(out, p.Param)
			}
		}
	}
	slices.Sort(out)
	return out
}
