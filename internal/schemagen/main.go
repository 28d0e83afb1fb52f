package main

import (
	"flag"
	"log"
	"os"

	"github.com/macropower/aspects/pkg/schema"
	"github.com/macropower/aspects/pkg/taxonomy"
)

var outFile = flag.String("o", "schema.json", "Output file for the generated schema")

// Run from the tasteconfigs package directory, via go:generate.
func main() {
	flag.Parse()

	r, err := taxonomy.Default()
	if err != nil {
		log.Fatalf("build aspect registry: %v", err)
	}

	gen := schema.NewGenerator(r,
		schema.WithGoComments("github.com/macropower/aspects/api/v1beta1/tasteconfigs", "."),
	)
	jsData, err := gen.Generate()
	if err != nil {
		log.Fatalf("generate JSON schema: %v", err)
	}

	err = os.WriteFile(*outFile, jsData, 0o600)
	if err != nil {
		log.Fatalf("write schema file: %v", err)
	}
}
