package main

import (
	"fmt"
	"go/parser"
	"go/token"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const modulePath = "agentlists"

type violation struct {
	File   string
	Line   int
	Import string
	Rule   string
}

// layerRule lists what a service layer may import besides the stdlib.
// Prefixes starting with "/" are relative to the owning service.
type layerRule struct {
	allowed []string
}

var layerRules = map[string]layerRule{
	"domain":      {allowed: []string{"/domain"}},
	"ports":       {allowed: []string{"/domain", "/ports", modulePath + "/contracts"}},
	"application": {allowed: []string{"/application", "/domain", "/ports", modulePath + "/contracts"}},
	"transport":   {allowed: []string{"/transport"}},
}

// platformMayImportContexts names the internal packages that compose
// services; every other internal package stays service-agnostic.
var platformMayImportContexts = []string{
	"internal/app/",
	"internal/cli/",
	"internal/platform/httpserver/",
}

func main() {
	violations := collectServiceViolations("contexts")
	violations = append(violations, collectInternalViolations("internal")...)
	if len(violations) == 0 {
		fmt.Println("boundary checks passed")
		return
	}

	sort.Slice(violations, func(i, j int) bool {
		if violations[i].File == violations[j].File {
			if violations[i].Line == violations[j].Line {
				return violations[i].Import < violations[j].Import
			}
			return violations[i].Line < violations[j].Line
		}
		return violations[i].File < violations[j].File
	})

	fmt.Println("boundary violations found:")
	for _, v := range violations {
		fmt.Printf("- %s:%d imports %q (%s)\n", v.File, v.Line, v.Import, v.Rule)
	}
	os.Exit(1)
}

func collectServiceViolations(root string) []violation {
	var violations []violation
	walkGoFiles(root, func(path string, normalized string) {
		parts := strings.Split(normalized, "/")
		if len(parts) < 4 || parts[0] != "contexts" {
			return
		}
		servicePrefix := fmt.Sprintf("%s/contexts/%s/%s", modulePath, parts[1], parts[2])
		layer := parts[3]

		imports, err := parseImports(path)
		if err != nil {
			violations = append(violations, violation{File: normalized, Line: 1, Rule: "file must parse"})
			return
		}
		for _, imp := range imports {
			if hasPrefix(imp.path, modulePath+"/contexts") && !hasPrefix(imp.path, servicePrefix) {
				violations = append(violations, violation{
					File:   normalized,
					Line:   imp.line,
					Import: imp.path,
					Rule:   "cross-service imports are forbidden; bridge services in internal/app",
				})
			}
			rule, ok := layerRules[layer]
			if !ok {
				continue
			}
			if v, bad := checkLayerImport(layer, rule, servicePrefix, imp); bad {
				v.File = normalized
				violations = append(violations, v)
			}
		}
	})
	return violations
}

func checkLayerImport(layer string, rule layerRule, servicePrefix string, imp importRef) (violation, bool) {
	if isStdlib(imp.path) {
		return violation{}, false
	}
	if strings.Contains(imp.path, "/adapters/") {
		return violation{Line: imp.line, Import: imp.path, Rule: layer + " must not import adapters"}, true
	}
	if hasPrefix(imp.path, modulePath+"/internal") || hasPrefix(imp.path, modulePath+"/cmd") {
		return violation{Line: imp.line, Import: imp.path, Rule: layer + " must not import runtime infrastructure"}, true
	}
	for _, allowed := range rule.allowed {
		prefix := allowed
		if strings.HasPrefix(allowed, "/") {
			prefix = servicePrefix + allowed
		}
		if hasPrefix(imp.path, prefix) {
			return violation{}, false
		}
	}
	return violation{Line: imp.line, Import: imp.path, Rule: layer + " import is outside explicit allowlist"}, true
}

func collectInternalViolations(root string) []violation {
	var violations []violation
	walkGoFiles(root, func(path string, normalized string) {
		for _, allowed := range platformMayImportContexts {
			if strings.HasPrefix(normalized, allowed) {
				return
			}
		}
		imports, err := parseImports(path)
		if err != nil {
			violations = append(violations, violation{File: normalized, Line: 1, Rule: "file must parse"})
			return
		}
		for _, imp := range imports {
			if hasPrefix(imp.path, modulePath+"/contexts") {
				violations = append(violations, violation{
					File:   normalized,
					Line:   imp.line,
					Import: imp.path,
					Rule:   "platform packages must not depend on services",
				})
			}
		}
	})
	return violations
}

type importRef struct {
	path string
	line int
}

func parseImports(path string) ([]importRef, error) {
	fset := token.NewFileSet()
	file, err := parser.ParseFile(fset, path, nil, parser.ImportsOnly)
	if err != nil {
		return nil, err
	}
	refs := make([]importRef, 0, len(file.Imports))
	for _, imp := range file.Imports {
		refs = append(refs, importRef{
			path: strings.Trim(imp.Path.Value, "\""),
			line: fset.Position(imp.Pos()).Line,
		})
	}
	return refs, nil
}

// walkGoFiles visits non-test Go files under root.
func walkGoFiles(root string, visit func(path string, normalized string)) {
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !strings.HasSuffix(path, ".go") || strings.HasSuffix(path, "_test.go") {
			return nil
		}
		visit(path, filepath.ToSlash(path))
		return nil
	})
}

func hasPrefix(path string, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

func isStdlib(importPath string) bool {
	if hasPrefix(importPath, modulePath) {
		return false
	}
	first := importPath
	if idx := strings.Index(first, "/"); idx != -1 {
		first = first[:idx]
	}
	return !strings.Contains(first, ".")
}
