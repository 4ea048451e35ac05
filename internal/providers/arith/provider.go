package arith

import (
	"errors"

	"github.com/danmuck/callwire/internal/calls"
)

// ID is the provider identifier used in daemon configuration.
const ID = "arith"

var ErrDivideByZero = errors.New("division by zero")

// Provider exposes integer arithmetic.
type Provider struct{}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) Functions() []calls.Export {
	return calls.Declare(p, []calls.Export{
		{Name: "add", Func: calls.Func2(p.Add)},
		{Name: "sub", Func: calls.Func2(p.Sub)},
		{Name: "mul", Func: calls.Func2(p.Mul)},
		{Name: "div", Func: calls.Func2(p.Div)},
		{Name: "sum", Func: calls.Func1(p.Sum)},
	})
}

func (p *Provider) Add(a, b int) (int, error) {
	return a + b, nil
}

func (p *Provider) Sub(a, b int) (int, error) {
	return a - b, nil
}

func (p *Provider) Mul(a, b int) (int, error) {
	return a * b, nil
}

// Div truncates toward zero.
func (p *Provider) Div(a, b int) (int, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	return a / b, nil
}

func (p *Provider) Sum(xs []int64) (int64, error) {
	var total int64
	for _, x := range xs {
		total += x
	}
	return total, nil
}
