package database

import (
	"reflect"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
)

// IndexSpec mô tả một index đọc từ struct tag `index:"..."`.
//
// Cú pháp tag (nhiều cấu hình cách nhau bởi ';'):
//
//	index:"single"                      index đơn, tăng dần
//	index:"single,order:-1"             index đơn, giảm dần
//	index:"unique,sparse"               unique, bỏ qua document thiếu field
//	index:"compound:part_type_unique"   tham gia compound index; tên chứa "_unique" thì unique
//	index:"text"                        text index
//	index:"ttl:3600"                    TTL index (giây)
type IndexSpec struct {
	Name   string
	Keys   bson.D
	Unique bool
	Sparse bool
	TTL    *int32
}

// Fields trả về danh sách field của index theo thứ tự khai báo
func (s IndexSpec) Fields() []string {
	out := make([]string, 0, len(s.Keys))
	for _, k := range s.Keys {
		out = append(out, k.Key)
	}
	return out
}

// parseIndexTag tách tag thành danh sách cấu hình key -> value
func parseIndexTag(tag string) []map[string]string {
	var result []map[string]string
	for _, part := range strings.Split(tag, ";") {
		entry := map[string]string{}
		for _, sub := range strings.Split(part, ",") {
			sub = strings.TrimSpace(sub)
			if sub == "" {
				continue
			}
			if k, v, ok := strings.Cut(sub, ":"); ok {
				entry[k] = v
			} else {
				entry[sub] = ""
			}
		}
		if len(entry) > 0 {
			result = append(result, entry)
		}
	}
	return result
}

func parseOrder(cfg map[string]string) int {
	if cfg["order"] == "-1" {
		return -1
	}
	return 1
}

// bsonFieldName lấy tên field từ tag bson ("name,omitempty" -> "name")
func bsonFieldName(field reflect.StructField) (name string, inline bool) {
	tag := field.Tag.Get("bson")
	name, opts, _ := strings.Cut(tag, ",")
	if strings.Contains(opts, "inline") {
		return "", true
	}
	if name == "-" {
		return "", false
	}
	if name == "" {
		name = strings.ToLower(field.Name)
	}
	return name, false
}

// ParseIndexSpecs đọc toàn bộ index khai báo trên model (kể cả struct nhúng `bson:",inline"`)
func ParseIndexSpecs(model interface{}) []IndexSpec {
	t := reflect.TypeOf(model)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}

	var specs []IndexSpec
	compound := map[string]*IndexSpec{}
	var compoundOrder []string

	var walk func(rt reflect.Type)
	walk = func(rt reflect.Type) {
		for i := 0; i < rt.NumField(); i++ {
			field := rt.Field(i)
			name, inline := bsonFieldName(field)
			if inline {
				ft := field.Type
				if ft.Kind() == reflect.Ptr {
					ft = ft.Elem()
				}
				if ft.Kind() == reflect.Struct {
					walk(ft)
				}
				continue
			}

			tag, ok := field.Tag.Lookup("index")
			if !ok || name == "" {
				continue
			}

			for _, cfg := range parseIndexTag(tag) {
				_, sparse := cfg["sparse"]

				if _, ok := cfg["text"]; ok {
					specs = append(specs, IndexSpec{Name: name + "_text", Keys: bson.D{{Key: name, Value: "text"}}})
				}
				if _, ok := cfg["single"]; ok {
					specs = append(specs, IndexSpec{Name: name + "_single", Keys: bson.D{{Key: name, Value: parseOrder(cfg)}}, Sparse: sparse})
				}
				if _, ok := cfg["unique"]; ok {
					specs = append(specs, IndexSpec{Name: name + "_unique", Keys: bson.D{{Key: name, Value: 1}}, Unique: true, Sparse: sparse})
				}
				if v, ok := cfg["ttl"]; ok {
					if ttl, err := strconv.Atoi(v); err == nil {
						seconds := int32(ttl)
						specs = append(specs, IndexSpec{Name: name + "_ttl", Keys: bson.D{{Key: name, Value: 1}}, TTL: &seconds})
					}
				}
				if group, ok := cfg["compound"]; ok && group != "" {
					spec, exists := compound[group]
					if !exists {
						spec = &IndexSpec{Name: group, Unique: strings.Contains(group, "_unique")}
						compound[group] = spec
						compoundOrder = append(compoundOrder, group)
					}
					spec.Keys = append(spec.Keys, bson.E{Key: name, Value: parseOrder(cfg)})
					spec.Sparse = spec.Sparse || sparse
				}
			}
		}
	}
	walk(t)

	for _, group := range compoundOrder {
		specs = append(specs, *compound[group])
	}
	return specs
}
