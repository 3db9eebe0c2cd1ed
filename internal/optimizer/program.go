package optimizer

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// binaryProgram is a 0/1 integer program: maximize objective·x subject to a
// set of linear rows, x binary. It is solved by depth-first branch and bound
// over the LP relaxation, using gonum's simplex on the converted standard
// form. Branching is deterministic: the lowest-index fractional variable,
// with the x=1 branch explored first.
type binaryProgram struct {
	objective []float64
	rows      []programRow
}

type rowSense int

const (
	rowLE rowSense = iota
	rowEQ
)

type programRow struct {
	coeffs []float64
	sense  rowSense
	rhs    float64
}

const (
	integralityTol = 1e-6
	simplexTol     = 1e-10
	// selectionTol mirrors the >=0.99 read-back guard for solver output.
	selectionTol = 0.99
)

var errNoIncumbent = errors.New("no feasible integer assignment")

func newBinaryProgram(objective []float64) *binaryProgram {
	return &binaryProgram{objective: objective}
}

func (p *binaryProgram) addLE(coeffs []float64, rhs float64) {
	p.rows = append(p.rows, programRow{coeffs: coeffs, sense: rowLE, rhs: rhs})
}

func (p *binaryProgram) addGE(coeffs []float64, rhs float64) {
	negated := make([]float64, len(coeffs))
	for i, v := range coeffs {
		negated[i] = -v
	}
	p.rows = append(p.rows, programRow{coeffs: negated, sense: rowLE, rhs: -rhs})
}

func (p *binaryProgram) addEQ(coeffs []float64, rhs float64) {
	p.rows = append(p.rows, programRow{coeffs: coeffs, sense: rowEQ, rhs: rhs})
}

// solve returns the optimal binary assignment, or errNoIncumbent when the
// program has no feasible integer point.
func (p *binaryProgram) solve() ([]float64, error) {
	best := &incumbent{objective: math.Inf(-1)}
	fixed := make(map[int]float64)
	if err := p.branch(fixed, best); err != nil {
		return nil, err
	}
	if best.x == nil {
		return nil, errNoIncumbent
	}
	return best.x, nil
}

type incumbent struct {
	objective float64
	x         []float64
}

func (p *binaryProgram) branch(fixed map[int]float64, best *incumbent) error {
	objective, x, err := p.relax(fixed)
	if err != nil {
		if errors.Is(err, lp.ErrInfeasible) {
			return nil
		}
		// The box rows bound every variable to [0,1], so an unbounded
		// report is a simplex artifact on a degenerate node, not a real
		// ray; prune the node.
		if errors.Is(err, lp.ErrUnbounded) {
			return nil
		}
		return err
	}

	// Bound: the relaxation is an upper bound on every completion of this
	// node, so a node that cannot beat the incumbent is pruned.
	if objective <= best.objective+integralityTol {
		return nil
	}

	branchVar := -1
	for i, v := range x {
		if _, ok := fixed[i]; ok {
			continue
		}
		if v > integralityTol && v < 1-integralityTol {
			branchVar = i
			break
		}
	}

	if branchVar == -1 {
		rounded := make([]float64, len(x))
		for i, v := range x {
			rounded[i] = math.Round(v)
		}
		best.objective = objective
		best.x = rounded
		return nil
	}

	for _, value := range []float64{1, 0} {
		fixed[branchVar] = value
		if err := p.branch(fixed, best); err != nil {
			delete(fixed, branchVar)
			return err
		}
		delete(fixed, branchVar)
	}
	return nil
}

// relax solves the LP relaxation with 0 <= x <= 1 box constraints plus the
// node's fixed variables, and returns the maximized objective with the
// variable values.
func (p *binaryProgram) relax(fixed map[int]float64) (float64, []float64, error) {
	n := len(p.objective)

	// Simplex minimizes, so negate the objective. Normalize it by its
	// largest magnitude: the simplex misreads badly scaled objectives as
	// unbounded even though the box rows bound every variable.
	scale := 0.0
	for _, v := range p.objective {
		if math.Abs(v) > scale {
			scale = math.Abs(v)
		}
	}
	if scale == 0 {
		scale = 1
	}
	c := make([]float64, n)
	for i, v := range p.objective {
		c[i] = -v / scale
	}

	var gData, h []float64
	var aData, b []float64
	gRows, aRows := 0, 0

	appendRow := func(dst []float64, coeffs []float64) []float64 {
		row := make([]float64, n)
		copy(row, coeffs)
		return append(dst, row...)
	}

	for _, row := range p.rows {
		switch row.sense {
		case rowLE:
			gData = appendRow(gData, row.coeffs)
			h = append(h, row.rhs)
			gRows++
		case rowEQ:
			aData = appendRow(aData, row.coeffs)
			b = append(b, row.rhs)
			aRows++
		}
	}

	// Box constraints: x_i <= 1 and -x_i <= 0.
	for i := 0; i < n; i++ {
		upper := make([]float64, n)
		upper[i] = 1
		gData = append(gData, upper...)
		h = append(h, 1)
		gRows++

		lower := make([]float64, n)
		lower[i] = -1
		gData = append(gData, lower...)
		h = append(h, 0)
		gRows++
	}

	// Node fixings as equality rows, in index order so the standard form is
	// identical for identical nodes.
	fixedVars := make([]int, 0, len(fixed))
	for i := range fixed {
		fixedVars = append(fixedVars, i)
	}
	sort.Ints(fixedVars)
	for _, i := range fixedVars {
		row := make([]float64, n)
		row[i] = 1
		aData = append(aData, row...)
		b = append(b, fixed[i])
		aRows++
	}

	g := mat.NewDense(gRows, n, gData)
	var a mat.Matrix
	if aRows > 0 {
		a = mat.NewDense(aRows, n, aData)
	}

	cStd, aStd, bStd := lp.Convert(c, g, h, a, b)
	optF, optX, err := lp.Simplex(cStd, aStd, bStd, simplexTol, nil)
	if err != nil {
		return 0, nil, err
	}

	// Convert splits each free variable into a positive and negative part.
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = optX[i] - optX[n+i]
	}
	return -optF * scale, x, nil
}
