// Package php implements the PHP Language Front-End (spec.md §4.2.2,
// component C2): tree-sitter-php as the primary syntactic parse, with a
// regex-based fallback reader for when the grammar cannot be loaded,
// grounded on the phpContext AST-walking style reviewed in the retrieval
// pack (namespace tracking across siblings, base_clause/class_interface_
// clause/declaration_list node shapes, doc-block-preceding-declaration
// lookup).
package php

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/php"

	"github.com/viant/codegraph/internal/langutil"
	"github.com/viant/codegraph/pkg/diag"
	"github.com/viant/codegraph/pkg/model"
)

// Inspector parses PHP source with tree-sitter-php, falling back to a
// regex reader when the grammar panics during load (spec §4.2.2 "optional
// PHP syntactic-parse library unavailable").
type Inspector struct{}

// NewInspector creates a PHP Inspector.
func NewInspector() *Inspector { return &Inspector{} }

// Language reports model.LangPHP.
func (i *Inspector) Language() model.Language { return model.LangPHP }

// Parse implements frontend.Frontend.
func (i *Inspector) Parse(ctx context.Context, relPath string, src []byte) (mod *model.Module, diags []diag.Diagnostic, err error) {
	defer func() {
		if r := recover(); r != nil {
			mod, diags = regexFallback(relPath, src)
			diags = append(diags, diag.Diagnostic{
				Kind: diag.HelperUnavailable, Path: relPath, Frontend: "php",
				Stage: "parse", Message: fmt.Sprintf("tree-sitter-php unavailable, used fallback reader: %v", r),
			})
			err = nil
		}
	}()

	parser := sitter.NewParser()
	parser.SetLanguage(php.GetLanguage())

	tree, perr := parser.ParseCtx(ctx, nil, src)
	if perr != nil {
		return nil, nil, fmt.Errorf("parse %s: %w", relPath, perr)
	}

	root := tree.RootNode()

	ctx2 := &walkCtx{src: src, file: relPath}
	ctx2.processChildren(root)

	mod = &model.Module{Path: relPath, Language: model.LangPHP, Package: ctx2.namespace}
	mod.Types = ctx2.types
	mod.Functions = ctx2.functions
	mod.Imports = ctx2.imports
	return mod, nil, nil
}

type walkCtx struct {
	src       []byte
	file      string
	namespace string
	types     []*model.TypeDecl
	functions []*model.Routine
	imports   []*model.Import
}

func (w *walkCtx) processChildren(node *sitter.Node) {
	for idx := 0; idx < int(node.NamedChildCount()); idx++ {
		child := node.NamedChild(idx)
		switch child.Type() {
		case "namespace_definition":
			w.handleNamespace(child)
		case "namespace_use_declaration":
			w.handleUse(child)
		case "function_definition":
			if fn := w.buildFunction(child, ""); fn != nil {
				w.functions = append(w.functions, fn)
			}
		case "class_declaration":
			w.handleType(child, model.TypeClass)
		case "interface_declaration":
			w.handleType(child, model.TypeInterface)
		case "trait_declaration":
			w.handleType(child, model.TypeTrait)
		case "enum_declaration":
			w.handleType(child, model.TypeEnum)
		}
	}
}

func (w *walkCtx) handleNamespace(node *sitter.Node) {
	nameNode := node.ChildByFieldName("name")
	ns := langutil.Text(nameNode, w.src)
	if body := node.ChildByFieldName("body"); body != nil {
		saved := w.namespace
		w.namespace = ns
		w.processChildren(body)
		w.namespace = saved
		return
	}
	w.namespace = ns
}

func (w *walkCtx) handleUse(node *sitter.Node) {
	langutil.WalkPreOrder(node, func(n *sitter.Node) bool {
		if n.Type() == "qualified_name" || n.Type() == "namespace_name" {
			w.imports = append(w.imports, &model.Import{Path: langutil.Text(n, w.src)})
			return false
		}
		return true
	})
}

func (w *walkCtx) qualify(name string) string {
	if w.namespace == "" {
		return name
	}
	return w.namespace + "\\" + name
}

func (w *walkCtx) handleType(node *sitter.Node, kind model.TypeKind) {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return
	}
	name := langutil.Text(nameNode, w.src)
	fqn := w.qualify(name)

	t := &model.TypeDecl{
		Name: name, QualifiedName: fqn, Kind: kind,
		IsExported: true,
		Visibility: model.VisibilityPublic,
		Location:   nodeLocation(node, w.src),
	}

	modifiers := childModifiers(node, w.src)
	t.IsAbstract = contains(modifiers, "abstract")
	t.IsFinal = contains(modifiers, "final")

	if doc := findDocComment(node, w.src); doc != "" {
		t.Doc = model.NewLocationNode(doc)
	}

	if bc := langutil.ChildByType(node, "base_clause"); bc != nil {
		for j := 0; j < int(bc.NamedChildCount()); j++ {
			t.Bases = append(t.Bases, &model.TypeRef{Text: langutil.Text(bc.NamedChild(j), w.src)})
		}
	}
	if ic := langutil.ChildByType(node, "class_interface_clause"); ic != nil {
		for j := 0; j < int(ic.NamedChildCount()); j++ {
			t.Implements = append(t.Implements, &model.TypeRef{Text: langutil.Text(ic.NamedChild(j), w.src)})
		}
	}

	if body := langutil.ChildByType(node, "declaration_list"); body != nil {
		w.processClassBody(body, t, fqn)
	}

	w.types = append(w.types, t)
}

func (w *walkCtx) processClassBody(body *sitter.Node, t *model.TypeDecl, classFQN string) {
	for idx := 0; idx < int(body.NamedChildCount()); idx++ {
		child := body.NamedChild(idx)
		switch child.Type() {
		case "method_declaration":
			if m := w.buildFunction(child, classFQN); m != nil {
				m.Kind = model.RoutineMethod
				applyModifiers(m, childModifiers(child, w.src))
				t.Methods = append(t.Methods, m)
			}
		case "property_declaration":
			t.Members = append(t.Members, w.buildProperties(child)...)
		case "const_declaration":
			t.Members = append(t.Members, w.buildConstants(child)...)
		case "use_declaration":
			langutil.WalkPreOrder(child, func(n *sitter.Node) bool {
				if n.Type() == "qualified_name" || n.Type() == "name" {
					t.UsesTraits = append(t.UsesTraits, &model.TypeRef{Text: langutil.Text(n, w.src)})
					return false
				}
				return true
			})
		}
	}
}

func (w *walkCtx) buildProperties(node *sitter.Node) []*model.Attribute {
	modifiers := childModifiers(node, w.src)
	vis := visibilityOf(modifiers)
	isStatic := contains(modifiers, "static")
	kind := model.AttrInstance
	if isStatic {
		kind = model.AttrClass
	}
	var typeRef *model.TypeRef
	if tn := langutil.ChildByType(node, "type"); tn != nil {
		typeRef = &model.TypeRef{Text: langutil.Text(tn, w.src)}
	}
	doc := findDocComment(node, w.src)
	tags := langutil.ParseDocTags(doc)

	var out []*model.Attribute
	for idx := 0; idx < int(node.NamedChildCount()); idx++ {
		child := node.NamedChild(idx)
		if child.Type() != "property_element" {
			continue
		}
		nameNode := langutil.ChildByType(child, "variable_name")
		if nameNode == nil {
			continue
		}
		name := strings.TrimPrefix(langutil.Text(nameNode, w.src), "$")
		var def string
		if v := child.ChildByFieldName("default_value"); v != nil {
			def = langutil.TrimmedText(v, w.src)
		}
		attrDoc := ""
		if d, ok := tags.Params[name]; ok {
			attrDoc = d
		}
		out = append(out, &model.Attribute{
			Name: name, Type: typeRef, Default: def, Kind: kind,
			Visibility: vis, IsStatic: isStatic, Doc: attrDoc,
			Location: nodeLocation(child, w.src),
		})
	}
	return out
}

func (w *walkCtx) buildConstants(node *sitter.Node) []*model.Attribute {
	var out []*model.Attribute
	for idx := 0; idx < int(node.NamedChildCount()); idx++ {
		child := node.NamedChild(idx)
		if child.Type() != "const_element" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		var def string
		if v := child.ChildByFieldName("value"); v != nil {
			def = langutil.TrimmedText(v, w.src)
		}
		out = append(out, &model.Attribute{
			Name: langutil.Text(nameNode, w.src), Kind: model.AttrConstant, Default: def,
			Visibility: model.VisibilityPublic, Location: nodeLocation(child, w.src),
		})
	}
	return out
}

func (w *walkCtx) buildFunction(node *sitter.Node, classFQN string) *model.Routine {
	nameNode := node.ChildByFieldName("name")
	if nameNode == nil {
		return nil
	}
	name := langutil.Text(nameNode, w.src)

	doc := findDocComment(node, w.src)
	tags := langutil.ParseDocTags(doc)

	r := &model.Routine{
		Name: name, Kind: model.RoutineFunction, Owner: classFQN,
		IsExported: true, Visibility: model.VisibilityPublic,
		Location: nodeLocation(node, w.src),
	}
	if doc != "" {
		r.Doc = model.NewLocationNode(doc)
		r.ParamDocs = tags.Params
	}
	if retNode := node.ChildByFieldName("return_type"); retNode != nil {
		r.Returns = &model.TypeRef{Text: langutil.Text(retNode, w.src)}
	} else if tags.Returns != "" {
		r.Returns = &model.TypeRef{Text: tags.Returns}
	}
	if paramsNode := node.ChildByFieldName("parameters"); paramsNode != nil {
		r.Parameters = parseParameters(paramsNode, w.src)
	}

	if body := node.ChildByFieldName("body"); body != nil {
		r.Body = model.NewLocationNode(langutil.Text(body, w.src))
		r.CallSites = scanCallSites(body, w.src)
	}

	var sig strings.Builder
	sig.WriteString("function ")
	sig.WriteString(name)
	if p := node.ChildByFieldName("parameters"); p != nil {
		sig.WriteString(langutil.TrimmedText(p, w.src))
	}
	r.Signature = sig.String()

	return r
}

func applyModifiers(r *model.Routine, modifiers []string) {
	r.Visibility = visibilityOf(modifiers)
	r.IsStatic = contains(modifiers, "static")
	r.IsAbstract = contains(modifiers, "abstract")
	r.IsExported = r.Visibility == model.VisibilityPublic
}

func visibilityOf(modifiers []string) model.Visibility {
	switch {
	case contains(modifiers, "private"):
		return model.VisibilityPrivate
	case contains(modifiers, "protected"):
		return model.VisibilityProtected
	default:
		return model.VisibilityPublic
	}
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}

// childModifiers scans node's own children for modifier tokens, which is
// how tree-sitter-php actually attaches them to method/property
// declarations (as leading named children, not a separate sibling list).
func childModifiers(node *sitter.Node, src []byte) []string {
	var out []string
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "visibility_modifier", "abstract_modifier", "static_modifier", "final_modifier":
			out = append(out, langutil.Text(child, src))
		}
	}
	return out
}

func parseParameters(node *sitter.Node, src []byte) []*model.Parameter {
	var out []*model.Parameter
	for idx := 0; idx < int(node.NamedChildCount()); idx++ {
		child := node.NamedChild(idx)
		if child.Type() != "simple_parameter" && child.Type() != "property_promotion_parameter" &&
			child.Type() != "variadic_parameter" {
			continue
		}
		nameNode := child.ChildByFieldName("name")
		if nameNode == nil {
			continue
		}
		p := &model.Parameter{
			Name:     strings.TrimPrefix(langutil.Text(nameNode, src), "$"),
			Variadic: child.Type() == "variadic_parameter",
		}
		if typeNode := child.ChildByFieldName("type"); typeNode != nil {
			p.Type = &model.TypeRef{Text: langutil.Text(typeNode, src)}
		}
		if child.ChildByFieldName("default_value") != nil {
			p.HasDefault = true
		}
		out = append(out, p)
	}
	return out
}

func scanCallSites(body *sitter.Node, src []byte) []*model.CallSite {
	var sites []*model.CallSite
	langutil.WalkPreOrder(body, func(n *sitter.Node) bool {
		switch n.Type() {
		case "function_call_expression":
			fn := n.ChildByFieldName("function")
			if fn != nil {
				sites = append(sites, &model.CallSite{Callee: langutil.Text(fn, src), Line: langutil.Line(n)})
			}
		case "member_call_expression", "scoped_call_expression":
			nameNode := n.ChildByFieldName("name")
			objNode := n.ChildByFieldName("object")
			if nameNode == nil {
				objNode = n.ChildByFieldName("scope")
			}
			site := &model.CallSite{Line: langutil.Line(n)}
			if nameNode != nil {
				site.Callee = langutil.Text(nameNode, src)
			}
			if objNode != nil {
				site.Receiver = langutil.Text(objNode, src)
			}
			if site.Callee != "" {
				sites = append(sites, site)
			}
		}
		return true
	})
	return sites
}

// findDocComment returns the text of the immediately preceding "comment"
// sibling, if it is a doc-block (starts with "/**"), matching the spec's
// "documentation is taken from the immediately preceding doc-block" rule.
func findDocComment(node *sitter.Node, src []byte) string {
	prev := node.PrevSibling()
	if prev == nil || prev.Type() != "comment" {
		return ""
	}
	text := langutil.Text(prev, src)
	if !strings.HasPrefix(text, "/**") {
		return ""
	}
	return text
}

func nodeLocation(n *sitter.Node, src []byte) *model.Location {
	start, end, line := langutil.Span(n)
	return &model.Location{Raw: langutil.Text(n, src), Start: start, End: end, Line: line, Col: int(n.StartPoint().Column)}
}

// regexFallback implements spec.md §4.2.2's degraded path: a strict-subset
// reader over class/interface/trait headers and method signatures, used
// only when the tree-sitter grammar panics. Every entity it produces is
// marked BestEffort so downstream consumers discount it accordingly.
func regexFallback(relPath string, src []byte) (*model.Module, []diag.Diagnostic) {
	mod := &model.Module{Path: relPath, Language: model.LangPHP}
	text := string(src)
	lines := strings.Split(text, "\n")

	var current *model.TypeDecl
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if t := matchTypeHeader(trimmed); t != nil {
			t.Location = &model.Location{Line: i + 1, Raw: trimmed}
			t.BestEffort = true
			mod.Types = append(mod.Types, t)
			current = t
			continue
		}
		if sig := matchMethodHeader(trimmed); sig != nil {
			sig.Location = &model.Location{Line: i + 1, Raw: trimmed}
			sig.BestEffort = true
			if current != nil {
				sig.Kind = model.RoutineMethod
				current.Methods = append(current.Methods, sig)
			} else {
				mod.Functions = append(mod.Functions, sig)
			}
		}
	}
	return mod, nil
}

func matchTypeHeader(line string) *model.TypeDecl {
	kind := model.TypeKind("")
	switch {
	case strings.Contains(line, "class "):
		kind = model.TypeClass
	case strings.Contains(line, "interface "):
		kind = model.TypeInterface
	case strings.Contains(line, "trait "):
		kind = model.TypeTrait
	default:
		return nil
	}
	fields := strings.Fields(line)
	for idx, f := range fields {
		if f == "class" || f == "interface" || f == "trait" {
			if idx+1 < len(fields) {
				name := strings.TrimRight(fields[idx+1], "{")
				return &model.TypeDecl{Name: name, QualifiedName: name, Kind: kind, IsExported: true}
			}
		}
	}
	return nil
}

func matchMethodHeader(line string) *model.Routine {
	if !strings.Contains(line, "function ") {
		return nil
	}
	idx := strings.Index(line, "function ")
	rest := strings.TrimSpace(line[idx+len("function "):])
	nameEnd := strings.IndexByte(rest, '(')
	if nameEnd < 0 {
		return nil
	}
	name := strings.TrimSpace(rest[:nameEnd])
	if name == "" {
		return nil
	}
	vis := model.VisibilityPublic
	switch {
	case strings.Contains(line, "private"):
		vis = model.VisibilityPrivate
	case strings.Contains(line, "protected"):
		vis = model.VisibilityProtected
	}
	return &model.Routine{
		Name: name, Kind: model.RoutineFunction, Visibility: vis,
		IsStatic:   strings.Contains(line, "static "),
		IsAbstract: strings.Contains(line, "abstract "),
		IsExported: vis == model.VisibilityPublic,
		Signature:  strings.TrimSuffix(strings.TrimSpace(line), "{"),
	}
}
