// Command modelgen regenerates the gorm row structs from a migrated
// postgres schema.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"gorm.io/driver/postgres"
	"gorm.io/gen"
	"gorm.io/gorm"
)

var spatialTables = []string{
	"terrain_chunks",
	"locations",
	"claims",
	"claim_tiles",
	"constructs",
	"dimension_networks",
	"dimensions",
}

func main() {
	var dsn, out, tables string
	flag.StringVar(&dsn, "dsn", os.Getenv("HEXWORLD_DB_DSN"), "postgres dsn")
	flag.StringVar(&out, "out", "internal/adapter/repo/gorm/query", "output dir for generated query code")
	flag.StringVar(&tables, "tables", strings.Join(spatialTables, ","), "comma separated tables to generate")
	flag.Parse()

	if dsn == "" {
		log.Fatal("missing --dsn or HEXWORLD_DB_DSN")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("open postgres: %v", err)
	}

	g := gen.NewGenerator(gen.Config{
		OutPath:           out,
		ModelPkgPath:      "model",
		Mode:              gen.WithoutContext | gen.WithDefaultQuery,
		FieldNullable:     false,
		FieldWithIndexTag: true,
	})
	g.UseDB(db)
	// Keep BYTEA payloads as raw bytes for the chunk codec.
	g.WithDataTypeMap(map[string]func(gorm.ColumnType) string{
		"bytea": func(gorm.ColumnType) string { return "[]byte" },
	})
	for _, name := range strings.Split(tables, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		g.ApplyBasic(g.GenerateModel(name))
	}
	g.Execute()

	fmt.Printf("generated gorm models under %s\n", out)
}
