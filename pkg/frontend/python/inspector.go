// Package python implements the Python Language Front-End (spec.md
// §4.2.1, component C2). It is grounded on the tree-sitter traversal style
// of the Python AST walker reviewed in the retrieval pack (decorated
// definitions, parameter node shapes, docstring extraction). Its
// package-level surface is an Inspector implementing frontend.Frontend
// (Language and Parse).
package python

import (
	"context"
	"fmt"
	"path"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/viant/codegraph/internal/langutil"
	"github.com/viant/codegraph/pkg/diag"
	"github.com/viant/codegraph/pkg/model"
)

// Inspector parses Python source with tree-sitter-python.
type Inspector struct{}

// NewInspector creates a Python Inspector. It holds no state; a new
// tree-sitter parser is created per Parse call so Inspector is safe for
// concurrent use, matching the teacher's per-call parser construction.
func NewInspector() *Inspector { return &Inspector{} }

// Language reports model.LangPython.
func (i *Inspector) Language() model.Language { return model.LangPython }

// Parse implements frontend.Frontend.
func (i *Inspector) Parse(ctx context.Context, relPath string, src []byte) (*model.Module, []diag.Diagnostic, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", relPath, err)
	}
	root := tree.RootNode()

	mod := &model.Module{
		Path:     relPath,
		Language: model.LangPython,
		Package:  derivePackage(relPath),
	}

	extractModuleDoc(root, src, mod)
	extractImports(root, src, mod)

	var diags []diag.Diagnostic
	for idx := 0; idx < int(root.NamedChildCount()); idx++ {
		child := root.NamedChild(idx)
		switch child.Type() {
		case "class_definition":
			if t := processClass(child, src, nil); t != nil {
				mod.Types = append(mod.Types, t)
			}
		case "decorated_definition":
			processDecoratedTopLevel(child, src, mod)
		case "function_definition":
			if fn := processFunction(child, src, nil, ""); fn != nil {
				mod.Functions = append(mod.Functions, fn)
			}
		case "expression_statement":
			if attr := processModuleAssignment(child, src); attr != nil {
				mod.Constants = append(mod.Constants, attr)
			}
		case "ERROR":
			diags = append(diags, diag.Diagnostic{
				Kind: diag.ParseFailure, Path: relPath, Line: langutil.Line(child),
				Frontend: "python", Stage: "parse", Message: "syntax error recovered by tree-sitter",
			})
		}
	}

	return mod, diags, nil
}

func derivePackage(relPath string) string {
	dir := path.Dir(relPath)
	if dir == "." {
		return strings.TrimSuffix(path.Base(relPath), path.Ext(relPath))
	}
	return strings.ReplaceAll(dir, "/", ".")
}

func extractModuleDoc(root *sitter.Node, src []byte, mod *model.Module) {
	for idx := 0; idx < int(root.NamedChildCount()); idx++ {
		child := root.NamedChild(idx)
		if child.Type() != "expression_statement" {
			if child.Type() == "comment" {
				continue
			}
			return
		}
		if child.NamedChildCount() > 0 && child.NamedChild(0).Type() == "string" {
			mod.Doc = model.NewLocationNode(stringContent(child.NamedChild(0), src))
		}
		return
	}
}

func extractImports(root *sitter.Node, src []byte, mod *model.Module) {
	for idx := 0; idx < int(root.NamedChildCount()); idx++ {
		child := root.NamedChild(idx)
		switch child.Type() {
		case "import_statement":
			processImportStatement(child, src, mod)
		case "import_from_statement":
			processImportFromStatement(child, src, mod)
		}
	}
}

func processImportStatement(node *sitter.Node, src []byte, mod *model.Module) {
	for idx := 0; idx < int(node.NamedChildCount()); idx++ {
		child := node.NamedChild(idx)
		switch child.Type() {
		case "dotted_name", "identifier":
			p := langutil.Text(child, src)
			mod.Imports = append(mod.Imports, &model.Import{Path: p, Location: nodeLocation(node, src)})
		case "aliased_import":
			var p, alias string
			for j := 0; j < int(child.NamedChildCount()); j++ {
				gc := child.NamedChild(j)
				switch gc.Type() {
				case "dotted_name", "identifier":
					if p == "" {
						p = langutil.Text(gc, src)
					} else {
						alias = langutil.Text(gc, src)
					}
				}
			}
			if p != "" {
				mod.Imports = append(mod.Imports, &model.Import{Path: p, Name: alias, Location: nodeLocation(node, src)})
			}
		}
	}
}

func processImportFromStatement(node *sitter.Node, src []byte, mod *model.Module) {
	var modulePath string
	var sawImport, isRelative bool
	var depth int

	for idx := 0; idx < int(node.ChildCount()); idx++ {
		child := node.Child(idx)
		switch child.Type() {
		case "import":
			sawImport = true
		case "relative_import":
			isRelative = true
			for j := 0; j < int(child.NamedChildCount()); j++ {
				gc := child.NamedChild(j)
				if gc.Type() == "import_prefix" {
					depth = len(langutil.Text(gc, src))
				}
				if gc.Type() == "dotted_name" {
					modulePath = langutil.Text(gc, src)
				}
			}
		case "dotted_name":
			if !sawImport {
				modulePath = langutil.Text(child, src)
			} else {
				addFromImport(mod, modulePath, langutil.Text(child, src), isRelative, depth, node, src)
			}
		case "aliased_import":
			var name, alias string
			for j := 0; j < int(child.NamedChildCount()); j++ {
				gc := child.NamedChild(j)
				switch gc.Type() {
				case "dotted_name", "identifier":
					if name == "" {
						name = langutil.Text(gc, src)
					} else {
						alias = langutil.Text(gc, src)
					}
				}
			}
			bound := alias
			if bound == "" {
				bound = name
			}
			addFromImport(mod, modulePath, bound, isRelative, depth, node, src)
		case "identifier":
			if sawImport {
				addFromImport(mod, modulePath, langutil.Text(child, src), isRelative, depth, node, src)
			}
		case "wildcard_import":
			addFromImport(mod, modulePath, "*", isRelative, depth, node, src)
		}
	}
}

func addFromImport(mod *model.Module, modulePath, name string, relative bool, depth int, node *sitter.Node, src []byte) {
	if modulePath == "" && !relative {
		return
	}
	mod.Imports = append(mod.Imports, &model.Import{
		Path: modulePath, Name: name, Relative: relative, Depth: depth,
		Location: nodeLocation(node, src),
	})
}

func processDecoratedTopLevel(node *sitter.Node, src []byte, mod *model.Module) {
	decorators := extractDecorators(node, src)
	for idx := 0; idx < int(node.NamedChildCount()); idx++ {
		child := node.NamedChild(idx)
		switch child.Type() {
		case "class_definition":
			if t := processClass(child, src, decorators); t != nil {
				mod.Types = append(mod.Types, t)
			}
		case "function_definition":
			if fn := processFunction(child, src, decorators, ""); fn != nil {
				mod.Functions = append(mod.Functions, fn)
			}
		}
	}
}

func extractDecorators(node *sitter.Node, src []byte) []string {
	var out []string
	for idx := 0; idx < int(node.NamedChildCount()); idx++ {
		child := node.NamedChild(idx)
		if child.Type() != "decorator" {
			continue
		}
		for j := 0; j < int(child.NamedChildCount()); j++ {
			gc := child.NamedChild(j)
			switch gc.Type() {
			case "identifier", "attribute", "dotted_name":
				out = append(out, langutil.Text(gc, src))
			case "call":
				if fn := gc.ChildByFieldName("function"); fn != nil {
					out = append(out, langutil.Text(fn, src))
				}
			}
		}
	}
	return out
}

func processClass(node *sitter.Node, src []byte, decorators []string) *model.TypeDecl {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := langutil.Text(nameNode, src)

	t := &model.TypeDecl{
		Name:          name,
		QualifiedName: name,
		Kind:          model.TypeClass,
		IsExported:    isExported(name),
		Location:      nodeLocation(node, src),
	}
	if argList := node.ChildByFieldName("superclasses"); argList != nil {
		for j := 0; j < int(argList.NamedChildCount()); j++ {
			arg := argList.NamedChild(j)
			switch arg.Type() {
			case "identifier", "attribute":
				t.Bases = append(t.Bases, &model.TypeRef{Text: langutil.Text(arg, src)})
			case "keyword_argument":
				// e.g. class Foo(metaclass=ABCMeta): not an inheritance edge
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body != nil {
		if doc := bodyDocstring(body, src); doc != "" {
			t.Doc = model.NewLocationNode(doc)
		}
		extractClassMembers(body, src, t)
	}
	return t
}

func bodyDocstring(body *sitter.Node, src []byte) string {
	if body.NamedChildCount() == 0 {
		return ""
	}
	first := body.NamedChild(0)
	if first.Type() == "expression_statement" && first.NamedChildCount() > 0 && first.NamedChild(0).Type() == "string" {
		return stringContent(first.NamedChild(0), src)
	}
	return ""
}

func extractClassMembers(body *sitter.Node, src []byte, t *model.TypeDecl) {
	for idx := 0; idx < int(body.NamedChildCount()); idx++ {
		child := body.NamedChild(idx)
		switch child.Type() {
		case "function_definition":
			if m := processFunction(child, src, nil, t.Name); m != nil {
				t.Methods = append(t.Methods, m)
				if m.Name == "__init__" {
					if b := child.ChildByFieldName("body"); b != nil {
						extractSelfAttributes(b, src, t)
					}
				}
			}
		case "decorated_definition":
			decorators := extractDecorators(child, src)
			for j := 0; j < int(child.NamedChildCount()); j++ {
				gc := child.NamedChild(j)
				if gc.Type() == "function_definition" {
					if m := processFunction(gc, src, decorators, t.Name); m != nil {
						if containsDecorator(decorators, "property") {
							t.Members = append(t.Members, propertyAttribute(t.ID, m))
							continue
						}
						t.Methods = append(t.Methods, m)
						if m.Name == "__init__" {
							if b := gc.ChildByFieldName("body"); b != nil {
								extractSelfAttributes(b, src, t)
							}
						}
					}
				}
			}
		case "expression_statement":
			if attr := processModuleAssignment(child, src); attr != nil {
				attr.Owner = t.ID
				attr.Kind = model.AttrClass
				t.Members = append(t.Members, attr)
			}
		}
	}
}

// extractSelfAttributes scans __init__'s body for `self.name = ...`
// assignments, the idiomatic way Python declares instance attributes
// (spec §4.2.1 "instance attributes assigned in __init__"). seen avoids
// emitting the same attribute twice when __init__ reassigns it later.
func extractSelfAttributes(body *sitter.Node, src []byte, t *model.TypeDecl) {
	seen := make(map[string]bool)
	langutil.WalkPreOrder(body, func(n *sitter.Node) bool {
		if n.Type() != "assignment" {
			return true
		}
		left := n.ChildByFieldName("left")
		if left == nil || left.Type() != "attribute" {
			return true
		}
		obj := left.ChildByFieldName("object")
		attr := left.ChildByFieldName("attribute")
		if obj == nil || attr == nil || langutil.Text(obj, src) != "self" {
			return true
		}
		name := langutil.Text(attr, src)
		if seen[name] {
			return true
		}
		seen[name] = true
		var def string
		if right := n.ChildByFieldName("right"); right != nil {
			def = langutil.TrimmedText(right, src)
		}
		t.Members = append(t.Members, &model.Attribute{
			Name: name, Kind: model.AttrInstance, Default: def,
			Visibility: model.VisibilityPublic, Location: nodeLocation(n, src),
		})
		return true
	})
}

func processModuleAssignment(stmt *sitter.Node, src []byte) *model.Attribute {
	if stmt.NamedChildCount() == 0 {
		return nil
	}
	assign := stmt.NamedChild(0)
	if assign.Type() != "assignment" {
		return nil
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Type() != "identifier" {
		return nil
	}
	name := langutil.Text(left, src)
	kind := model.AttrInstance
	if langutil.IsUppercase(name) {
		kind = model.AttrConstant
	}
	var tref *model.TypeRef
	if typeNode := assign.ChildByFieldName("type"); typeNode != nil {
		tref = &model.TypeRef{Text: langutil.Text(typeNode, src)}
	}
	var def string
	if right := assign.ChildByFieldName("right"); right != nil {
		def = langutil.TrimmedText(right, src)
	}
	return &model.Attribute{
		Name: name, Kind: kind, Type: tref, Default: def,
		Location: nodeLocation(stmt, src),
	}
}

func processFunction(node *sitter.Node, src []byte, decorators []string, owner string) *model.Routine {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := langutil.Text(nameNode, src)

	isAsync := false
	for idx := 0; idx < int(node.ChildCount()); idx++ {
		if node.Child(idx).Type() == "async" {
			isAsync = true
			break
		}
	}

	r := &model.Routine{
		Name:       name,
		Kind:       model.RoutineFunction,
		Owner:      owner,
		IsAsync:    isAsync,
		IsExported: isExported(name),
		Visibility: model.VisibilityPublic,
		Location:   nodeLocation(node, src),
	}
	if owner != "" {
		r.Kind = model.RoutineMethod
	}
	if !r.IsExported {
		r.Visibility = model.VisibilityPrivate
	}

	if paramsNode := node.ChildByFieldName("parameters"); paramsNode != nil {
		r.Parameters = parseParameters(paramsNode, src)
	}
	if retNode := node.ChildByFieldName("return_type"); retNode != nil {
		r.Returns = &model.TypeRef{Text: langutil.Text(retNode, src)}
	}

	for _, dec := range decorators {
		switch dec {
		case "staticmethod", "classmethod":
			r.IsStatic = true
		case "abstractmethod":
			r.IsAbstract = true
		}
	}
	if body := node.ChildByFieldName("body"); body != nil {
		r.Doc = bodyDocNode(body, src)
		if r.Doc != nil {
			r.ParamDocs = langutil.ParsePythonDocParams(r.Doc.Text)
		}
		r.Body = model.NewLocationNode(langutil.Text(body, src))
		r.CallSites = scanCallSites(body, src)
		if containsYield(body) {
			r.IsGenerator = true
		}
	}

	var sig strings.Builder
	if isAsync {
		sig.WriteString("async ")
	}
	sig.WriteString("def ")
	sig.WriteString(name)
	sig.WriteString(langutil.TrimmedText(node.ChildByFieldName("parameters"), src))
	r.Signature = sig.String()

	return r
}

func bodyDocNode(body *sitter.Node, src []byte) *model.LocationNode {
	text := bodyDocstring(body, src)
	if text == "" {
		return nil
	}
	return model.NewLocationNode(text)
}

func containsYield(n *sitter.Node) bool {
	found := false
	langutil.WalkPreOrder(n, func(node *sitter.Node) bool {
		if found {
			return false
		}
		if node.Type() == "yield" {
			found = true
			return false
		}
		return true
	})
	return found
}

func parseParameters(node *sitter.Node, src []byte) []*model.Parameter {
	var out []*model.Parameter
	for idx := 0; idx < int(node.NamedChildCount()); idx++ {
		child := node.NamedChild(idx)
		switch child.Type() {
		case "identifier":
			name := langutil.Text(child, src)
			if name == "self" || name == "cls" {
				continue
			}
			out = append(out, &model.Parameter{Name: name})
		case "typed_parameter":
			p := &model.Parameter{}
			for j := 0; j < int(child.NamedChildCount()); j++ {
				gc := child.NamedChild(j)
				switch gc.Type() {
				case "identifier":
					p.Name = langutil.Text(gc, src)
				case "type":
					p.Type = &model.TypeRef{Text: langutil.Text(gc, src)}
				}
			}
			if p.Name != "" {
				out = append(out, p)
			}
		case "default_parameter":
			p := &model.Parameter{HasDefault: true}
			if n := child.ChildByFieldName("name"); n != nil {
				p.Name = langutil.Text(n, src)
			}
			if p.Name != "" {
				out = append(out, p)
			}
		case "typed_default_parameter":
			p := &model.Parameter{HasDefault: true}
			if n := child.ChildByFieldName("name"); n != nil {
				p.Name = langutil.Text(n, src)
			}
			if n := child.ChildByFieldName("type"); n != nil {
				p.Type = &model.TypeRef{Text: langutil.Text(n, src)}
			}
			if p.Name != "" {
				out = append(out, p)
			}
		case "list_splat_pattern":
			out = append(out, &model.Parameter{Name: strings.TrimPrefix(langutil.Text(child, src), "*"), Variadic: true})
		case "dictionary_splat_pattern":
			out = append(out, &model.Parameter{Name: strings.TrimPrefix(langutil.Text(child, src), "**"), Variadic: true})
		}
	}
	return out
}

// scanCallSites walks a routine body for call expressions, capturing the
// callee and (for attribute-style calls like self.save() or obj.method())
// the receiver text, per spec §4.5 step 1.
func scanCallSites(body *sitter.Node, src []byte) []*model.CallSite {
	var sites []*model.CallSite
	langutil.WalkPreOrder(body, func(n *sitter.Node) bool {
		if n.Type() != "call" {
			return true
		}
		fn := n.ChildByFieldName("function")
		if fn == nil {
			return true
		}
		site := &model.CallSite{Callee: langutil.Text(fn, src), Line: langutil.Line(n)}
		if fn.Type() == "attribute" {
			if recv := fn.ChildByFieldName("object"); recv != nil {
				site.Receiver = langutil.Text(recv, src)
			}
			if attrField := fn.ChildByFieldName("attribute"); attrField != nil {
				site.Callee = langutil.Text(attrField, src)
			}
		}
		sites = append(sites, site)
		return true
	})
	return sites
}

func isExported(name string) bool {
	return !strings.HasPrefix(name, "_")
}

func containsDecorator(decorators []string, name string) bool {
	for _, d := range decorators {
		if d == name {
			return true
		}
	}
	return false
}

// propertyAttribute re-emits an @property-decorated method as the
// property-kind Attribute it describes (spec §4.2.1 decorator recognition),
// rather than as a callable Method -- mirroring how the JS/TS front-end's
// processField already surfaces properties as model.AttrProperty members.
func propertyAttribute(owner string, m *model.Routine) *model.Attribute {
	a := &model.Attribute{
		Name:       m.Name,
		Owner:      owner,
		Type:       m.Returns,
		Kind:       model.AttrProperty,
		Visibility: m.Visibility,
		Location:   m.Location,
	}
	if m.Doc != nil {
		a.Doc = m.Doc.Text
	}
	return a
}

func nodeLocation(n *sitter.Node, src []byte) *model.Location {
	start, end, line := langutil.Span(n)
	return &model.Location{
		Raw: langutil.Text(n, src), Start: start, End: end,
		Line: line, Col: int(n.StartPoint().Column),
	}
}

func stringContent(n *sitter.Node, src []byte) string {
	text := langutil.Text(n, src)
	for _, q := range []string{`"""`, "'''", `"`, "'"} {
		if strings.HasPrefix(text, q) && strings.HasSuffix(text, q) && len(text) >= 2*len(q) {
			return strings.TrimSpace(text[len(q) : len(text)-len(q)])
		}
	}
	return text
}
