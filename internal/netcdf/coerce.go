// ABOUTME: Shape and type coercion for raw NetCDF variable values
// ABOUTME: Flattens numeric arrays to float64 and decodes char-array scalars
package netcdf

import "strings"

// floatSlice coerces a raw variable value to a flat []float64. Profile
// files store per-level arrays either one-dimensional or as a single-row
// matrix; the first row is the profile in the latter case. Non-finite
// values pass through untouched so callers can apply the finite check.
func floatSlice(v any) ([]float64, bool) {
	switch vv := v.(type) {
	case []float64:
		return vv, true
	case []float32:
		out := make([]float64, len(vv))
		for i, f := range vv {
			out[i] = float64(f)
		}
		return out, true
	case []int64:
		out := make([]float64, len(vv))
		for i, n := range vv {
			out[i] = float64(n)
		}
		return out, true
	case []int32:
		out := make([]float64, len(vv))
		for i, n := range vv {
			out[i] = float64(n)
		}
		return out, true
	case []int16:
		out := make([]float64, len(vv))
		for i, n := range vv {
			out[i] = float64(n)
		}
		return out, true
	case []int8:
		out := make([]float64, len(vv))
		for i, n := range vv {
			out[i] = float64(n)
		}
		return out, true
	case [][]float64:
		if len(vv) == 0 {
			return nil, false
		}
		return vv[0], true
	case [][]float32:
		if len(vv) == 0 {
			return nil, false
		}
		return floatSlice(vv[0])
	case float64:
		return []float64{vv}, true
	case float32:
		return []float64{float64(vv)}, true
	case int64:
		return []float64{float64(vv)}, true
	case int32:
		return []float64{float64(vv)}, true
	case int16:
		return []float64{float64(vv)}, true
	case int8:
		return []float64{float64(vv)}, true
	default:
		return nil, false
	}
}

// firstFloat returns the scalar (first element or singleton) of a numeric
// variable.
func firstFloat(v any) (float64, bool) {
	fs, ok := floatSlice(v)
	if !ok || len(fs) == 0 {
		return 0, false
	}
	return fs[0], true
}

// firstString returns the scalar of a character or string variable,
// trimmed of the NUL and space padding NetCDF char arrays carry.
func firstString(v any) (string, bool) {
	trim := func(s string) string {
		return strings.TrimRight(s, "\x00 ")
	}
	switch vv := v.(type) {
	case string:
		return trim(vv), true
	case []string:
		if len(vv) == 0 {
			return "", false
		}
		return trim(vv[0]), true
	case []byte:
		return trim(string(vv)), true
	case [][]byte:
		if len(vv) == 0 {
			return "", false
		}
		return trim(string(vv[0])), true
	default:
		return "", false
	}
}

// stringList decodes a string-array variable to its trimmed elements.
// A single string splits on whitespace, matching how parameter lists
// are flattened by some producing centers.
func stringList(v any) []string {
	trim := func(s string) string {
		return strings.TrimRight(s, "\x00 ")
	}
	switch vv := v.(type) {
	case string:
		return strings.Fields(trim(vv))
	case []string:
		out := make([]string, 0, len(vv))
		for _, s := range vv {
			out = append(out, trim(s))
		}
		return out
	case []byte:
		return strings.Fields(trim(string(vv)))
	case [][]byte:
		out := make([]string, 0, len(vv))
		for _, b := range vv {
			out = append(out, trim(string(b)))
		}
		return out
	default:
		return nil
	}
}

// qualityFlags decodes a per-level QC companion variable. QC channels are
// char arrays ("1149...") or small integer arrays depending on the
// producing center; both decode to one integer flag per level. Characters
// that are not digits decode to -1 so the caller can fall back to the
// default flag.
func qualityFlags(v any) ([]int, bool) {
	digits := func(s string) []int {
		out := make([]int, len(s))
		for i := 0; i < len(s); i++ {
			c := s[i]
			if c >= '0' && c <= '9' {
				out[i] = int(c - '0')
			} else {
				out[i] = -1
			}
		}
		return out
	}

	switch vv := v.(type) {
	case string:
		return digits(vv), true
	case []byte:
		return digits(string(vv)), true
	case []string:
		out := make([]int, len(vv))
		for i, s := range vv {
			if len(s) == 0 {
				out[i] = -1
				continue
			}
			out[i] = digits(s[:1])[0]
		}
		return out, true
	case [][]byte:
		if len(vv) == 0 {
			return nil, false
		}
		return digits(string(vv[0])), true
	default:
		fs, ok := floatSlice(v)
		if !ok {
			return nil, false
		}
		out := make([]int, len(fs))
		for i, f := range fs {
			out[i] = int(f)
		}
		return out, true
	}
}
