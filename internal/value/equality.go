package value

import (
	"fmt"
	"strings"
)

// StructuralKey produces a deterministic string key used by Set/Map for
// membership and lookup. It implements the structural half of spec
// §4.C.7 ("structural for containers and temporal values by normalized
// form; reference-equality for host objects"). The `==` operator's
// special NaN-never-equal-itself rule (§4.A) is a comparison-operator
// concern, not a container-hashing concern, so two NaNs inserted into the
// same Set collapse to one entry here; StructuralEqual below is what the
// `==` operator actually calls.
func StructuralKey(v Value) string {
	switch x := v.(type) {
	case Null:
		return "null"
	case None:
		return "none"
	case NaNValue:
		return "nan"
	case Boolean:
		return fmt.Sprintf("b:%v", bool(x))
	case Char:
		return fmt.Sprintf("c:%d", rune(x))
	case String:
		return "s:" + string(x)
	case Number:
		return "n:" + x.N.AsBigDecimal().String()
	case HostObject:
		return fmt.Sprintf("h:%p", x.Ref)
	case *List:
		return "l:[" + joinKeys(x.Elements) + "]"
	case *Tuple:
		return "t:(" + joinKeys(x.Elements) + ")"
	case *Set:
		return "set:{" + joinKeys(x.Elements()) + "}"
	case *Map:
		var sb strings.Builder
		sb.WriteString("m:{")
		for i, e := range x.Entries() {
			if i > 0 {
				sb.WriteString(",")
			}
			sb.WriteString(StructuralKey(e.First))
			sb.WriteString("=>")
			sb.WriteString(StructuralKey(e.Second))
		}
		sb.WriteString("}")
		return sb.String()
	case Pair:
		return "p:(" + StructuralKey(x.First) + "," + StructuralKey(x.Second) + ")"
	case Triple:
		return "tr:(" + StructuralKey(x.First) + "," + StructuralKey(x.Second) + "," + StructuralKey(x.Third) + ")"
	default:
		return fmt.Sprintf("v:%s:%s", v.Tag(), v.String())
	}
}

func joinKeys(vs []Value) string {
	var sb strings.Builder
	for i, v := range vs {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString(StructuralKey(v))
	}
	return sb.String()
}

// StructuralEqual implements the `==` operator's structural-equality half
// (spec §4.C.7). NaN is handled by the caller (operation engine) before
// reaching here, since NaN never equals anything including itself.
func StructuralEqual(a, b Value) bool {
	if a.Tag() != b.Tag() {
		return false
	}
	switch x := a.(type) {
	case *Set:
		y := b.(*Set)
		if x.Len() != y.Len() {
			return false
		}
		if x.Ordered && y.Ordered {
			for i, v := range x.Elements() {
				w, _ := y.At(i)
				if !StructuralEqual(v, w) {
					return false
				}
			}
			return true
		}
		for _, v := range x.Elements() {
			if !y.Contains(v) {
				return false
			}
		}
		return true
	case *Map:
		y := b.(*Map)
		if x.Len() != y.Len() {
			return false
		}
		if x.Ordered && y.Ordered {
			xe, ye := x.Entries(), y.Entries()
			for i := range xe {
				if !StructuralEqual(xe[i].First, ye[i].First) || !StructuralEqual(xe[i].Second, ye[i].Second) {
					return false
				}
			}
			return true
		}
		for _, e := range x.Entries() {
			v, ok := y.Get(e.First)
			if !ok || !StructuralEqual(v, e.Second) {
				return false
			}
		}
		return true
	case HostObject:
		y := b.(HostObject)
		return x.Ref == y.Ref
	default:
		return StructuralKey(a) == StructuralKey(b)
	}
}
