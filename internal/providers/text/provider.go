package text

import (
	"errors"
	"strings"

	"github.com/danmuck/callwire/internal/calls"
)

// ID is the provider identifier used in daemon configuration.
const ID = "text"

const maxRepeatBytes = 1 << 20

var ErrRepeatCount = errors.New("repeat count out of range")

// Provider exposes string helpers.
type Provider struct{}

func New() *Provider {
	return &Provider{}
}

func (p *Provider) Functions() []calls.Export {
	return calls.Declare(p, []calls.Export{
		{Name: "upper", Func: calls.Func1(p.Upper)},
		{Name: "concat", Func: calls.Func1(p.Concat)},
		{Name: "repeat", Func: calls.Func2(p.Repeat)},
		{Name: "length", Func: calls.Func1(p.Length)},
	})
}

func (p *Provider) Upper(s string) (string, error) {
	return strings.ToUpper(s), nil
}

func (p *Provider) Concat(parts []string) (string, error) {
	return strings.Join(parts, ""), nil
}

// Repeat caps the result at 1 MiB.
func (p *Provider) Repeat(s string, count int32) (string, error) {
	if count < 0 || (len(s) > 0 && int(count) > maxRepeatBytes/len(s)) {
		return "", ErrRepeatCount
	}
	return strings.Repeat(s, int(count)), nil
}

// Length returns the byte length of b.
func (p *Provider) Length(b []byte) (uint32, error) {
	return uint32(len(b)), nil
}
