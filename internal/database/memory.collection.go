package database

import (
	"fmt"
	"reflect"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// MemoryCollection là collection lưu trong bộ nhớ, hỗ trợ tập con truy vấn/cập nhật của MongoDB
// mà các service sử dụng. Dùng cho STORAGE_DRIVER=memory và cho test.
type MemoryCollection struct {
	name    string
	mu      sync.RWMutex
	docs    []bson.M
	uniques []IndexSpec
}

// MemoryFindOptions là các tùy chọn Find được hỗ trợ
type MemoryFindOptions struct {
	Sort  bson.D
	Skip  int64
	Limit int64
}

// MemoryUpdateResult tương đương mongo.UpdateResult
type MemoryUpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	UpsertedCount int64
	UpsertedID    interface{}
}

// NewMemoryCollection tạo collection rỗng
func NewMemoryCollection(name string) *MemoryCollection {
	return &MemoryCollection{name: name}
}

// Name trả về tên collection
func (c *MemoryCollection) Name() string {
	return c.name
}

// EnsureIndexes đăng ký các ràng buộc unique khai báo bằng tag `index` trên model
func (c *MemoryCollection) EnsureIndexes(model interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, spec := range ParseIndexSpecs(model) {
		if !spec.Unique {
			continue
		}
		replaced := false
		for i := range c.uniques {
			if c.uniques[i].Name == spec.Name {
				c.uniques[i] = spec
				replaced = true
			}
		}
		if !replaced {
			c.uniques = append(c.uniques, spec)
		}
	}
}

// InsertOne thêm document, tự sinh _id nếu thiếu
func (c *MemoryCollection) InsertOne(document interface{}) (interface{}, error) {
	doc, err := toDoc(document)
	if err != nil {
		return nil, err
	}
	if id, ok := doc["_id"]; !ok || id == nil || id == primitive.NilObjectID {
		doc["_id"] = primitive.NewObjectID()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.checkUnique(doc, -1); err != nil {
		return nil, err
	}
	c.docs = append(c.docs, doc)
	return doc["_id"], nil
}

// Find trả về bản sao các document khớp filter
func (c *MemoryCollection) Find(filter interface{}, opts MemoryFindOptions) ([]bson.M, error) {
	f, err := toDoc(filter)
	if err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var matched []bson.M
	for _, d := range c.docs {
		if Matches(d, f) {
			matched = append(matched, d)
		}
	}

	if len(opts.Sort) > 0 {
		sortDocs(matched, opts.Sort)
	}
	if opts.Skip > 0 {
		if opts.Skip >= int64(len(matched)) {
			matched = nil
		} else {
			matched = matched[opts.Skip:]
		}
	}
	if opts.Limit > 0 && opts.Limit < int64(len(matched)) {
		matched = matched[:opts.Limit]
	}

	out := make([]bson.M, 0, len(matched))
	for _, d := range matched {
		cp, err := toDoc(d)
		if err != nil {
			return nil, err
		}
		out = append(out, cp)
	}
	return out, nil
}

// FindOne trả về document đầu tiên khớp filter, mongo.ErrNoDocuments nếu không có
func (c *MemoryCollection) FindOne(filter interface{}, sortSpec bson.D) (bson.M, error) {
	docs, err := c.Find(filter, MemoryFindOptions{Sort: sortSpec, Limit: 1})
	if err != nil {
		return nil, err
	}
	if len(docs) == 0 {
		return nil, mongo.ErrNoDocuments
	}
	return docs[0], nil
}

// CountDocuments đếm số document khớp filter
func (c *MemoryCollection) CountDocuments(filter interface{}) (int64, error) {
	f, err := toDoc(filter)
	if err != nil {
		return 0, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	var n int64
	for _, d := range c.docs {
		if Matches(d, f) {
			n++
		}
	}
	return n, nil
}

// UpdateOne cập nhật document đầu tiên khớp filter; upsert tạo mới nếu không có
func (c *MemoryCollection) UpdateOne(filter, update interface{}, upsert bool) (MemoryUpdateResult, error) {
	return c.update(filter, update, upsert, false)
}

// UpdateMany cập nhật mọi document khớp filter
func (c *MemoryCollection) UpdateMany(filter, update interface{}, upsert bool) (MemoryUpdateResult, error) {
	return c.update(filter, update, upsert, true)
}

func (c *MemoryCollection) update(filter, update interface{}, upsert, many bool) (MemoryUpdateResult, error) {
	var res MemoryUpdateResult

	f, err := toDoc(filter)
	if err != nil {
		return res, err
	}
	u, err := toDoc(update)
	if err != nil {
		return res, err
	}
	if err := checkUpdateDoc(u); err != nil {
		return res, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, d := range c.docs {
		if !Matches(d, f) {
			continue
		}
		res.MatchedCount++

		next, err := toDoc(d)
		if err != nil {
			return res, err
		}
		if err := applyUpdate(next, u, false); err != nil {
			return res, err
		}
		if err := c.checkUnique(next, i); err != nil {
			return res, err
		}
		if !reflect.DeepEqual(d, next) {
			c.docs[i] = next
			res.ModifiedCount++
		}
		if !many {
			break
		}
	}

	if res.MatchedCount == 0 && upsert {
		doc := seedFromFilter(f)
		if err := applyUpdate(doc, u, true); err != nil {
			return res, err
		}
		if _, ok := doc["_id"]; !ok {
			doc["_id"] = primitive.NewObjectID()
		}
		// chuẩn hóa lại kiểu sau khi set
		doc, err = toDoc(doc)
		if err != nil {
			return res, err
		}
		if err := c.checkUnique(doc, -1); err != nil {
			return res, err
		}
		c.docs = append(c.docs, doc)
		res.UpsertedCount = 1
		res.UpsertedID = doc["_id"]
	}
	return res, nil
}

// FindOneAndUpdate cập nhật nguyên tử rồi trả về document sau cập nhật (returnAfter) hoặc trước cập nhật
func (c *MemoryCollection) FindOneAndUpdate(filter, update interface{}, upsert, returnAfter bool) (bson.M, error) {
	f, err := toDoc(filter)
	if err != nil {
		return nil, err
	}
	u, err := toDoc(update)
	if err != nil {
		return nil, err
	}
	if err := checkUpdateDoc(u); err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, d := range c.docs {
		if !Matches(d, f) {
			continue
		}
		next, err := toDoc(d)
		if err != nil {
			return nil, err
		}
		if err := applyUpdate(next, u, false); err != nil {
			return nil, err
		}
		if err := c.checkUnique(next, i); err != nil {
			return nil, err
		}
		before := d
		c.docs[i] = next
		if returnAfter {
			return toDoc(next)
		}
		return toDoc(before)
	}

	if !upsert {
		return nil, mongo.ErrNoDocuments
	}

	doc := seedFromFilter(f)
	if err := applyUpdate(doc, u, true); err != nil {
		return nil, err
	}
	if _, ok := doc["_id"]; !ok {
		doc["_id"] = primitive.NewObjectID()
	}
	doc, err = toDoc(doc)
	if err != nil {
		return nil, err
	}
	if err := c.checkUnique(doc, -1); err != nil {
		return nil, err
	}
	c.docs = append(c.docs, doc)
	if returnAfter {
		return toDoc(doc)
	}
	return nil, mongo.ErrNoDocuments
}

// DeleteOne xóa document đầu tiên khớp filter
func (c *MemoryCollection) DeleteOne(filter interface{}) (int64, error) {
	return c.delete(filter, false)
}

// DeleteMany xóa mọi document khớp filter
func (c *MemoryCollection) DeleteMany(filter interface{}) (int64, error) {
	return c.delete(filter, true)
}

func (c *MemoryCollection) delete(filter interface{}, many bool) (int64, error) {
	f, err := toDoc(filter)
	if err != nil {
		return 0, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	var deleted int64
	kept := c.docs[:0]
	for _, d := range c.docs {
		if (many || deleted == 0) && Matches(d, f) {
			deleted++
			continue
		}
		kept = append(kept, d)
	}
	// xóa tham chiếu cũ ở phần đuôi
	for i := len(kept); i < len(c.docs); i++ {
		c.docs[i] = nil
	}
	c.docs = kept
	return deleted, nil
}

// Drop xóa toàn bộ document, giữ lại ràng buộc unique
func (c *MemoryCollection) Drop() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.docs = nil
}

// checkUnique kiểm tra _id và các unique index; skip là vị trí của chính document đang cập nhật
func (c *MemoryCollection) checkUnique(doc bson.M, skip int) error {
	for i, other := range c.docs {
		if i == skip {
			continue
		}
		if valuesEqual(other["_id"], doc["_id"]) {
			return duplicateKeyError(c.name, "_id_")
		}
		for _, spec := range c.uniques {
			if sameUniqueKey(doc, other, spec) {
				return duplicateKeyError(c.name, spec.Name)
			}
		}
	}
	return nil
}

func sameUniqueKey(a, b bson.M, spec IndexSpec) bool {
	for _, field := range spec.Fields() {
		av, aok := lookup(a, field)
		bv, bok := lookup(b, field)
		if spec.Sparse && (!aok || !bok) {
			return false
		}
		if aok != bok {
			return false
		}
		if !valuesEqual(av, bv) {
			return false
		}
	}
	return true
}

func duplicateKeyError(collection, index string) error {
	return mongo.WriteException{
		WriteErrors: mongo.WriteErrors{{
			Code:    11000,
			Message: fmt.Sprintf("E11000 duplicate key error collection: %s index: %s", collection, index),
		}},
	}
}

// seedFromFilter lấy các điều kiện bằng ở cấp cao nhất làm giá trị khởi tạo khi upsert
func seedFromFilter(filter bson.M) bson.M {
	doc := bson.M{}
	for k, v := range filter {
		if len(k) > 0 && k[0] == '$' {
			continue
		}
		if _, isOp := operatorDoc(v); isOp {
			continue
		}
		setPath(doc, k, v)
	}
	return doc
}

func sortDocs(docs []bson.M, spec bson.D) {
	sort.SliceStable(docs, func(i, j int) bool {
		for _, key := range spec {
			dir := 1
			if n, ok := toFloat(key.Value); ok && n < 0 {
				dir = -1
			}
			av, _ := lookup(docs[i], key.Key)
			bv, _ := lookup(docs[j], key.Key)
			if c := compareValues(av, bv); c != 0 {
				return c*dir < 0
			}
		}
		return false
	})
}

// ToSortSpec chuyển tùy chọn Sort của driver (bson.D / bson.M) thành bson.D
func ToSortSpec(s interface{}) bson.D {
	switch v := s.(type) {
	case nil:
		return nil
	case bson.D:
		return v
	case bson.M:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := make(bson.D, 0, len(keys))
		for _, k := range keys {
			out = append(out, bson.E{Key: k, Value: v[k]})
		}
		return out
	case map[string]interface{}:
		return ToSortSpec(bson.M(v))
	}
	return nil
}

// toDoc chuẩn hóa về bson.M (bản sao sâu) thông qua bson
func toDoc(v interface{}) (bson.M, error) {
	if v == nil {
		return bson.M{}, nil
	}
	raw, err := bson.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("memory collection: marshal: %w", err)
	}
	out := bson.M{}
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("memory collection: unmarshal: %w", err)
	}
	return out, nil
}
