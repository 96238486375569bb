package database

import (
	"bytes"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ====================================
// FILTER
// ====================================

// Matches đánh giá filter kiểu MongoDB trên document.
// Hỗ trợ: so sánh bằng (mảng khớp khi chứa phần tử), $eq $ne $in $nin $exists $gt $gte $lt $lte, $and $or $nor, đường dẫn "a.b".
func Matches(doc bson.M, filter bson.M) bool {
	for key, cond := range filter {
		switch key {
		case "$and":
			for _, sub := range subFilters(cond) {
				if !Matches(doc, sub) {
					return false
				}
			}
		case "$or":
			subs := subFilters(cond)
			ok := len(subs) == 0
			for _, sub := range subs {
				if Matches(doc, sub) {
					ok = true
					break
				}
			}
			if !ok {
				return false
			}
		case "$nor":
			for _, sub := range subFilters(cond) {
				if Matches(doc, sub) {
					return false
				}
			}
		default:
			v, exists := lookup(doc, key)
			if !matchField(v, exists, cond) {
				return false
			}
		}
	}
	return true
}

func subFilters(cond interface{}) []bson.M {
	var out []bson.M
	for _, item := range asArray(cond) {
		if m, ok := asMap(item); ok {
			out = append(out, m)
		}
	}
	return out
}

func matchField(v interface{}, exists bool, cond interface{}) bool {
	ops, isOp := operatorDoc(cond)
	if !isOp {
		return equalsOrContains(v, exists, cond)
	}

	for op, arg := range ops {
		switch op {
		case "$eq":
			if !equalsOrContains(v, exists, arg) {
				return false
			}
		case "$ne":
			if equalsOrContains(v, exists, arg) {
				return false
			}
		case "$in":
			if !inList(v, exists, arg) {
				return false
			}
		case "$nin":
			if inList(v, exists, arg) {
				return false
			}
		case "$exists":
			want, _ := arg.(bool)
			if want != exists {
				return false
			}
		case "$gt", "$gte", "$lt", "$lte":
			if !exists || v == nil || !sameTypeClass(v, arg) {
				return false
			}
			c := compareValues(v, arg)
			switch op {
			case "$gt":
				if c <= 0 {
					return false
				}
			case "$gte":
				if c < 0 {
					return false
				}
			case "$lt":
				if c >= 0 {
					return false
				}
			case "$lte":
				if c > 0 {
					return false
				}
			}
		default:
			return false
		}
	}
	return true
}

func inList(v interface{}, exists bool, arg interface{}) bool {
	for _, candidate := range asArray(arg) {
		if equalsOrContains(v, exists, candidate) {
			return true
		}
	}
	return false
}

// equalsOrContains: nil khớp field thiếu hoặc null; field mảng khớp khi có phần tử bằng target
func equalsOrContains(v interface{}, exists bool, target interface{}) bool {
	if target == nil {
		return !exists || v == nil
	}
	if !exists {
		return false
	}
	if valuesEqual(v, target) {
		return true
	}
	if arr, ok := v.(primitive.A); ok {
		for _, e := range arr {
			if valuesEqual(e, target) {
				return true
			}
		}
	}
	return false
}

// operatorDoc nhận diện sub-document toàn key bắt đầu bằng '$'
func operatorDoc(v interface{}) (bson.M, bool) {
	m, ok := asMap(v)
	if !ok || len(m) == 0 {
		return nil, false
	}
	for k := range m {
		if !strings.HasPrefix(k, "$") {
			return nil, false
		}
	}
	return m, true
}

// ====================================
// UPDATE
// ====================================

func checkUpdateDoc(update bson.M) error {
	if len(update) == 0 {
		return fmt.Errorf("memory collection: update document is empty")
	}
	for k := range update {
		if !strings.HasPrefix(k, "$") {
			return fmt.Errorf("memory collection: replacement updates are not supported (key %q)", k)
		}
	}
	return nil
}

// applyUpdate áp dụng $set $setOnInsert $unset $inc $push $addToSet $pull lên doc
func applyUpdate(doc bson.M, update bson.M, inserting bool) error {
	for op, arg := range update {
		fields, ok := asMap(arg)
		if !ok {
			return fmt.Errorf("memory collection: %s expects a document", op)
		}
		for path, value := range fields {
			switch op {
			case "$set":
				setPath(doc, path, value)
			case "$setOnInsert":
				if inserting {
					setPath(doc, path, value)
				}
			case "$unset":
				unsetPath(doc, path)
			case "$inc":
				cur, _ := lookup(doc, path)
				a, _ := toFloat(cur)
				b, ok := toFloat(value)
				if !ok {
					return fmt.Errorf("memory collection: $inc %s expects a number", path)
				}
				if isInteger(cur) && isInteger(value) {
					setPath(doc, path, int64(a+b))
				} else {
					setPath(doc, path, a+b)
				}
			case "$push", "$addToSet":
				cur, _ := lookup(doc, path)
				arr := append(primitive.A{}, asArray(cur)...)
				items := primitive.A{value}
				if each, ok := asMap(value); ok {
					if list, has := each["$each"]; has {
						items = asArray(list)
					}
				}
				for _, item := range items {
					if op == "$addToSet" && containsValue(arr, item) {
						continue
					}
					arr = append(arr, item)
				}
				setPath(doc, path, arr)
			case "$pull":
				cur, exists := lookup(doc, path)
				if !exists {
					continue
				}
				kept := primitive.A{}
				for _, item := range asArray(cur) {
					if ops, isOp := operatorDoc(value); isOp {
						if matchField(item, true, ops) {
							continue
						}
					} else if valuesEqual(item, value) {
						continue
					}
					kept = append(kept, item)
				}
				setPath(doc, path, kept)
			default:
				return fmt.Errorf("memory collection: unsupported update operator %s", op)
			}
		}
	}
	return nil
}

func containsValue(arr primitive.A, v interface{}) bool {
	for _, e := range arr {
		if valuesEqual(e, v) {
			return true
		}
	}
	return false
}

// ====================================
// ĐƯỜNG DẪN
// ====================================

func lookup(doc bson.M, path string) (interface{}, bool) {
	var cur interface{} = doc
	for _, part := range strings.Split(path, ".") {
		switch node := cur.(type) {
		case primitive.A:
			idx, err := strconv.Atoi(part)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			cur = node[idx]
		default:
			m, ok := asMap(node)
			if !ok {
				return nil, false
			}
			v, exists := m[part]
			if !exists {
				return nil, false
			}
			cur = v
		}
	}
	return cur, true
}

func setPath(doc bson.M, path string, value interface{}) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := asMap(cur[part])
		if !ok {
			next = bson.M{}
		}
		cur[part] = next
		cur = next
	}
	cur[parts[len(parts)-1]] = value
}

func unsetPath(doc bson.M, path string) {
	parts := strings.Split(path, ".")
	cur := doc
	for _, part := range parts[:len(parts)-1] {
		next, ok := asMap(cur[part])
		if !ok {
			return
		}
		cur[part] = next
		cur = next
	}
	delete(cur, parts[len(parts)-1])
}

// asMap trả về bson.M cho các dạng document (bson.M, map, bson.D)
func asMap(v interface{}) (bson.M, bool) {
	switch m := v.(type) {
	case bson.M:
		return m, true
	case map[string]interface{}:
		return bson.M(m), true
	case bson.D:
		out := bson.M{}
		for _, e := range m {
			out[e.Key] = e.Value
		}
		return out, true
	}
	return nil, false
}

func asArray(v interface{}) primitive.A {
	switch a := v.(type) {
	case nil:
		return nil
	case primitive.A:
		return a
	case []interface{}:
		return primitive.A(a)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice || rv.Kind() == reflect.Array {
		out := make(primitive.A, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			out[i] = rv.Index(i).Interface()
		}
		return out
	}
	return primitive.A{v}
}

// ====================================
// SO SÁNH GIÁ TRỊ
// ====================================

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

func isInteger(v interface{}) bool {
	switch v.(type) {
	case nil, int, int32, int64:
		return true
	}
	return false
}

// valuesEqual so sánh hai giá trị bson, số khác kiểu (int32/int64/float64) vẫn bằng nhau nếu cùng giá trị
func valuesEqual(a, b interface{}) bool {
	if an, ok := toFloat(a); ok {
		bn, ok := toFloat(b)
		return ok && an == bn
	}
	if am, ok := asMap(a); ok {
		bm, ok := asMap(b)
		if !ok || len(am) != len(bm) {
			return false
		}
		for k, v := range am {
			if !valuesEqual(v, bm[k]) {
				return false
			}
		}
		return true
	}
	if aa, ok := a.(primitive.A); ok {
		ba, ok := b.(primitive.A)
		if !ok || len(aa) != len(ba) {
			return false
		}
		for i := range aa {
			if !valuesEqual(aa[i], ba[i]) {
				return false
			}
		}
		return true
	}
	return reflect.DeepEqual(a, b)
}

// typeRank xếp thứ tự giữa các kiểu khác nhau theo thứ tự so sánh của MongoDB
func typeRank(v interface{}) int {
	switch v.(type) {
	case nil:
		return 0
	case int, int32, int64, float32, float64:
		return 1
	case string:
		return 2
	case bson.M, map[string]interface{}, bson.D:
		return 3
	case primitive.A:
		return 4
	case primitive.ObjectID:
		return 5
	case bool:
		return 6
	}
	return 7
}

func sameTypeClass(a, b interface{}) bool {
	return typeRank(a) == typeRank(b)
}

// compareValues trả về -1, 0, 1
func compareValues(a, b interface{}) int {
	ra, rb := typeRank(a), typeRank(b)
	if ra != rb {
		if ra < rb {
			return -1
		}
		return 1
	}

	switch av := a.(type) {
	case nil:
		return 0
	case string:
		return strings.Compare(av, b.(string))
	case primitive.ObjectID:
		bv := b.(primitive.ObjectID)
		return bytes.Compare(av[:], bv[:])
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		}
		return 1
	}

	if an, ok := toFloat(a); ok {
		bn, _ := toFloat(b)
		switch {
		case an < bn:
			return -1
		case an > bn:
			return 1
		}
		return 0
	}
	return 0
}
