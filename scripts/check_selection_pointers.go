//go:build ignore

// Script kiểm tra con trỏ phiên bản đang chọn (content_selections) so với các collection nội dung.
// Báo cáo con trỏ trỏ tới phiên bản đã mất và phiên bản có cờ metadata.selected lệch với con trỏ.
// Chạy: go run scripts/check_selection_pointers.go [-fix]
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var collectionByType = map[string]string{
	"beat":       "beats",
	"shot":       "shots",
	"storyboard": "storyboards",
}

type pointer struct {
	ID               primitive.ObjectID `bson:"_id"`
	PartID           primitive.ObjectID `bson:"partId"`
	Type             string             `bson:"type"`
	CurrentVersionID primitive.ObjectID `bson:"currentVersionId"`
}

func loadEnv() {
	cwd, _ := os.Getwd()
	for _, p := range []string{".env", "config/env/development.env"} {
		for _, dir := range []string{cwd, filepath.Dir(cwd)} {
			full := filepath.Join(dir, p)
			if _, err := os.Stat(full); err == nil {
				_ = godotenv.Load(full)
				return
			}
		}
	}
}

func main() {
	fix := flag.Bool("fix", false, "Xóa con trỏ hỏng và đồng bộ lại cờ selected")
	flag.Parse()

	loadEnv()
	uri := os.Getenv("MONGODB_CONNECTION_URI")
	dbName := os.Getenv("MONGODB_DBNAME")
	if uri == "" || dbName == "" {
		log.Fatal("Cần MONGODB_CONNECTION_URI và MONGODB_DBNAME")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		log.Fatalf("Kết nối lỗi: %v", err)
	}
	defer client.Disconnect(ctx)
	db := client.Database(dbName)

	cur, err := db.Collection("content_selections").Find(ctx, bson.M{})
	if err != nil {
		log.Fatalf("Đọc content_selections lỗi: %v", err)
	}
	var pointers []pointer
	if err := cur.All(ctx, &pointers); err != nil {
		log.Fatalf("Decode content_selections lỗi: %v", err)
	}

	dangling, mismatched := 0, 0
	for _, p := range pointers {
		colName, ok := collectionByType[p.Type]
		if !ok {
			fmt.Printf("⚠️  Con trỏ %s có type lạ: %q\n", p.ID.Hex(), p.Type)
			continue
		}
		col := db.Collection(colName)

		err := col.FindOne(ctx, bson.M{"_id": p.CurrentVersionID, "partId": p.PartID}).Err()
		if err == mongo.ErrNoDocuments {
			dangling++
			fmt.Printf("❌ Part %s (%s): con trỏ trỏ tới phiên bản không còn tồn tại %s\n", p.PartID.Hex(), p.Type, p.CurrentVersionID.Hex())
			if *fix {
				if _, err := db.Collection("content_selections").DeleteOne(ctx, bson.M{"_id": p.ID}); err != nil {
					log.Printf("Xóa con trỏ %s lỗi: %v", p.ID.Hex(), err)
				}
			}
			continue
		}
		if err != nil {
			log.Fatalf("Đọc %s lỗi: %v", colName, err)
		}

		wrong := bson.M{
			"partId": p.PartID,
			"$or": bson.A{
				bson.M{"_id": p.CurrentVersionID, "metadata.selected": bson.M{"$ne": true}},
				bson.M{"_id": bson.M{"$ne": p.CurrentVersionID}, "metadata.selected": true},
			},
		}
		n, err := col.CountDocuments(ctx, wrong)
		if err != nil {
			log.Fatalf("Đếm %s lỗi: %v", colName, err)
		}
		if n == 0 {
			continue
		}
		mismatched += int(n)
		fmt.Printf("⚠️  Part %s (%s): %d phiên bản có cờ selected lệch con trỏ\n", p.PartID.Hex(), p.Type, n)
		if *fix {
			_, err1 := col.UpdateMany(ctx, bson.M{"partId": p.PartID, "_id": bson.M{"$ne": p.CurrentVersionID}}, bson.M{"$set": bson.M{"metadata.selected": false}})
			_, err2 := col.UpdateOne(ctx, bson.M{"_id": p.CurrentVersionID}, bson.M{"$set": bson.M{"metadata.selected": true}})
			if err1 != nil || err2 != nil {
				log.Printf("Đồng bộ part %s lỗi: %v %v", p.PartID.Hex(), err1, err2)
			}
		}
	}

	fmt.Printf("\nĐã kiểm tra %d con trỏ: %d hỏng, %d phiên bản lệch cờ\n", len(pointers), dangling, mismatched)
	if (dangling > 0 || mismatched > 0) && !*fix {
		fmt.Println("Chạy lại với -fix để sửa")
	}
}
