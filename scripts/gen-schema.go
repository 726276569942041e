//go:build ignore

package main

import (
	"fmt"
	"os"

	"github.com/homecfg/hagate/pkg/validate"
)

func main() {
	data, err := validate.GenerateAutomationJSONSchema()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	if err := os.WriteFile("schemas/automation-v1.json", data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "write: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("wrote schemas/automation-v1.json")
}
