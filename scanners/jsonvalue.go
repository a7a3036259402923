package scanners

import (
	"math"

	"github.com/JA3G3R/clippyzard/types"
	"github.com/valyala/fastjson"
)

// The helpers below never fail: a missing key or a value of another JSON
// type yields nil.

func valueAt(v *fastjson.Value, t fastjson.Type, keys ...string) *fastjson.Value {
	v = v.Get(keys...)
	if v == nil || v.Type() != t {
		return nil
	}
	return v
}

func objectAt(v *fastjson.Value, keys ...string) *fastjson.Value {
	return valueAt(v, fastjson.TypeObject, keys...)
}

func arrayAt(v *fastjson.Value, keys ...string) []*fastjson.Value {
	a := valueAt(v, fastjson.TypeArray, keys...)
	if a == nil {
		return nil
	}
	arr, err := a.Array()
	if err != nil {
		return nil
	}
	return arr
}

// stringAt copies the string, so the result outlives the parser.
func stringAt(v *fastjson.Value, keys ...string) *string {
	s := valueAt(v, fastjson.TypeString, keys...)
	if s == nil {
		return nil
	}
	b, err := s.StringBytes()
	if err != nil {
		return nil
	}
	return types.Ptr(string(b))
}

// intAt truncates fractional numbers toward zero.
func intAt(v *fastjson.Value, keys ...string) *int {
	n := valueAt(v, fastjson.TypeNumber, keys...)
	if n == nil {
		return nil
	}
	f, err := n.Float64()
	if err != nil || math.IsNaN(f) || f >= math.MaxInt64 || f < math.MinInt64 {
		return nil
	}
	return types.Ptr(int(f))
}
