package main

import (
	"fmt"
	"go/ast"

	"golang.org/x/tools/go/packages"
)

// runOpcodeCheck loads ./internal/ipp with golang.org/x/tools/go/packages
// and verifies that every opcode named in an arities map entry also
// appears as the first argument of a register(...) call somewhere in the
// package — a handler-completeness check that catches a new opcode added
// to the catalogue without a corresponding ops_*.go implementation.
func runOpcodeCheck() error {
	cfg := &packages.Config{Mode: packages.NeedSyntax | packages.NeedName}

	pkgs, err := packages.Load(cfg, "./internal/ipp")
	if err != nil {
		return fmt.Errorf("devtool: load: %w", err)
	}

	if packages.PrintErrors(pkgs) > 0 {
		return fmt.Errorf("devtool: internal/ipp has build errors")
	}

	cataloged := map[string]bool{}
	registered := map[string]bool{}

	for _, pkg := range pkgs {
		for _, file := range pkg.Syntax {
			ast.Inspect(file, func(n ast.Node) bool {
				switch node := n.(type) {
				case *ast.CallExpr:
					if ident, ok := node.Fun.(*ast.Ident); ok && ident.Name == "register" && len(node.Args) > 0 {
						if op, ok := node.Args[0].(*ast.Ident); ok {
							registered[op.Name] = true
						}
					}
				case *ast.ValueSpec:
					if !specNamed(node, "arities") {
						return true
					}

					for _, v := range node.Values {
						collectMapKeys(v, cataloged)
					}
				}

				return true
			})
		}
	}

	var missing []string

	for op := range cataloged {
		if !registered[op] {
			missing = append(missing, op)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("devtool: %d opcode(s) cataloged but never registered: %v", len(missing), missing)
	}

	fmt.Printf("devtool: opcodes: %d cataloged, %d registered, all handled\n", len(cataloged), len(registered))

	return nil
}

func specNamed(spec *ast.ValueSpec, name string) bool {
	for _, n := range spec.Names {
		if n.Name == name {
			return true
		}
	}

	return false
}

// collectMapKeys records the identifier keys of a map composite literal,
// the shape of the package's "arities map[Opcode]Arity{...}" declaration.
func collectMapKeys(expr ast.Expr, into map[string]bool) {
	lit, ok := expr.(*ast.CompositeLit)
	if !ok {
		return
	}

	for _, elt := range lit.Elts {
		kv, ok := elt.(*ast.KeyValueExpr)
		if !ok {
			continue
		}

		if ident, ok := kv.Key.(*ast.Ident); ok {
			into[ident.Name] = true
		}
	}
}
