package index

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/goliatone/go-docindex/internal/logging"
	"github.com/goliatone/go-docindex/internal/markdown"
	"github.com/goliatone/go-docindex/internal/toc"
	"github.com/goliatone/go-docindex/pkg/interfaces"
)

// Config controls how the index service discovers sources and names the
// persisted tree.
type Config struct {
	// ContentDir is the documentation source root.
	ContentDir string
	// Pattern narrows Markdown discovery (defaults to "*.md").
	Pattern string
	// RootDocument is the slug of the index page builds start from
	// (defaults to "index").
	RootDocument string
	// IndexCode identifies the persisted tree (defaults to "docs").
	IndexCode string
	// MaxDepth caps expansion of nested index pages. Zero means unlimited.
	MaxDepth int
	// Strict promotes validation issues to hard build errors.
	Strict bool
}

// Service implements interfaces.IndexService over a filesystem loader and the
// index repositories.
type Service struct {
	cfg      Config
	loader   *markdown.Loader
	indexes  IndexRepository
	entries  IndexEntryRepository
	resolver URLResolver
	logger   interfaces.Logger
	idGen    func() uuid.UUID
	now      func() time.Time
}

var _ interfaces.IndexService = (*Service)(nil)

// ServiceOption customises service construction.
type ServiceOption func(*Service)

// WithLogger injects the logger used by the service. Defaults to no-op.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithURLResolver overrides the resolver used for navigation URLs.
func WithURLResolver(resolver URLResolver) ServiceOption {
	return func(s *Service) {
		if resolver != nil {
			s.resolver = resolver
		}
	}
}

// WithIDGenerator overrides entity ID generation, used by tests for
// deterministic trees.
func WithIDGenerator(gen func() uuid.UUID) ServiceOption {
	return func(s *Service) {
		if gen != nil {
			s.idGen = gen
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// WithFilesystem replaces the loader filesystem, letting tests run against
// fstest.MapFS instead of the OS.
func WithFilesystem(filesystem fs.FS) ServiceOption {
	return func(s *Service) {
		s.loader = markdown.NewLoader(filesystem, markdown.LoaderConfig{
			BasePath:  s.cfg.ContentDir,
			Pattern:   s.cfg.Pattern,
			Recursive: true,
		})
	}
}

// NewService constructs an index service rooted at cfg.ContentDir.
func NewService(cfg Config, indexes IndexRepository, entries IndexEntryRepository, opts ...ServiceOption) (*Service, error) {
	if cfg.RootDocument == "" {
		cfg.RootDocument = "index"
	}
	if cfg.IndexCode == "" {
		cfg.IndexCode = "docs"
	}

	svc := &Service{
		cfg:      cfg,
		indexes:  indexes,
		entries:  entries,
		resolver: PathResolver{},
		logger:   logging.NoOp(),
		idGen:    uuid.New,
		now:      time.Now,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(svc)
		}
	}

	if svc.loader == nil {
		base := cfg.ContentDir
		if base == "" {
			base = "."
		}
		if _, err := os.Stat(base); err != nil {
			return nil, fmt.Errorf("index service: content dir %s: %w", base, err)
		}
		svc.loader = markdown.NewLoader(os.DirFS(base), markdown.LoaderConfig{
			BasePath:  base,
			Pattern:   cfg.Pattern,
			Recursive: true,
		})
	}

	return svc, nil
}

// Build walks the documentation sources from the root document and returns
// the assembled navigation tree plus a validation report. When strict mode is
// requested (via options or configuration) error-severity issues fail the
// build with ErrValidationFailed.
func (s *Service) Build(ctx context.Context, opts interfaces.BuildOptions) (*interfaces.BuildResult, error) {
	return s.build(ctx, opts, opts.Strict || s.cfg.Strict)
}

func (s *Service) build(ctx context.Context, opts interfaces.BuildOptions, strict bool) (*interfaces.BuildResult, error) {
	corpus, err := s.loadCorpus(ctx)
	if err != nil {
		return nil, err
	}

	rootRef := opts.RootDocument
	if rootRef == "" {
		rootRef = s.cfg.RootDocument
	}

	rootDoc := corpus.resolve("", rootRef)
	if rootDoc == nil {
		return nil, fmt.Errorf("%w: %s", ErrRootDocumentMissing, rootRef)
	}

	maxDepth := opts.MaxDepth
	if maxDepth == 0 {
		maxDepth = s.cfg.MaxDepth
	}

	builder := &treeBuilder{
		corpus:   corpus,
		resolver: s.resolver,
		report:   &interfaces.ValidationReport{},
		seen:     map[string]int{},
		maxDepth: maxDepth,
	}

	root := &interfaces.NavigationNode{
		Ref:    rootRef,
		Title:  markdown.DocumentTitle(rootDoc),
		Source: rootDoc.FilePath,
	}
	builder.seen[rootDoc.FilePath]++

	if err := builder.expand(ctx, rootDoc, root, []string{rootDoc.FilePath}); err != nil {
		return nil, err
	}

	builder.reportOrphans(rootDoc)

	result := &interfaces.BuildResult{
		Root:      root,
		Report:    builder.report,
		Documents: len(builder.seen),
	}

	if strict && builder.report.HasErrors() {
		return result, fmt.Errorf("%w: %d issue(s)", ErrValidationFailed, len(builder.report.Issues))
	}

	s.logger.Info("index.build.completed",
		"root", rootRef,
		"documents", result.Documents,
		"issues", len(builder.report.Issues),
	)

	return result, nil
}

// Validate runs the structural checks of a build without persisting anything.
// Unlike strict builds it never fails on issues; callers inspect the report.
func (s *Service) Validate(ctx context.Context, opts interfaces.BuildOptions) (*interfaces.ValidationReport, error) {
	result, err := s.build(ctx, opts, false)
	if err != nil {
		return nil, err
	}
	return result.Report, nil
}

// Sync builds the tree and reconciles it with the persisted copy. Entries are
// matched by canonical key; unchanged entries are skipped via checksum
// comparison. DryRun reports the would-be actions without writing.
func (s *Service) Sync(ctx context.Context, opts interfaces.SyncOptions) (*interfaces.SyncResult, error) {
	build, err := s.Build(ctx, opts.BuildOptions)
	if err != nil {
		return nil, err
	}

	record, err := s.ensureIndex(ctx, opts.DryRun)
	if err != nil {
		return nil, err
	}

	flattened := flattenTree(build.Root)

	existing := map[string]*IndexEntry{}
	if record != nil {
		persisted, err := s.entries.ListByIndex(ctx, record.ID)
		if err != nil {
			return nil, err
		}
		for _, entry := range persisted {
			existing[entry.CanonicalKey] = entry
		}
	}

	result := &interfaces.SyncResult{DryRun: opts.DryRun}
	idsByKey := map[string]uuid.UUID{}

	for _, flat := range flattened {
		current, ok := existing[flat.key]
		if ok {
			delete(existing, flat.key)
			if entryUnchanged(current, flat) {
				result.Skipped++
				idsByKey[flat.key] = current.ID
				continue
			}
			result.Updated++
			if opts.DryRun {
				idsByKey[flat.key] = current.ID
				continue
			}
			updated := s.entryFromNode(record, current.ID, flat, idsByKey)
			updated.CreatedAt = current.CreatedAt
			if _, err := s.entries.Update(ctx, updated); err != nil {
				return nil, err
			}
			idsByKey[flat.key] = current.ID
			continue
		}

		result.Created++
		if opts.DryRun {
			idsByKey[flat.key] = s.idGen()
			continue
		}
		created := s.entryFromNode(record, s.idGen(), flat, idsByKey)
		stored, err := s.entries.Create(ctx, created)
		if err != nil {
			return nil, err
		}
		idsByKey[flat.key] = stored.ID
	}

	if opts.DeleteOrphaned {
		for _, stale := range existing {
			result.Deleted++
			if opts.DryRun {
				continue
			}
			if err := s.entries.Delete(ctx, stale.ID); err != nil {
				return nil, err
			}
		}
	}

	if record != nil && !opts.DryRun {
		record.BuiltAt = s.now()
		record.UpdatedAt = s.now()
		if _, err := s.indexes.Update(ctx, record); err != nil {
			return nil, err
		}
	}

	s.logger.Info("index.sync.completed",
		"created", result.Created,
		"updated", result.Updated,
		"deleted", result.Deleted,
		"skipped", result.Skipped,
		"dry_run", result.DryRun,
	)

	return result, nil
}

// ResolveNavigation reassembles the persisted tree for the given index code.
func (s *Service) ResolveNavigation(ctx context.Context, indexCode string) ([]interfaces.NavigationNode, error) {
	if indexCode == "" {
		indexCode = s.cfg.IndexCode
	}

	record, err := s.indexes.GetByCode(ctx, indexCode)
	if err != nil {
		return nil, err
	}

	entries, err := s.entries.ListByIndex(ctx, record.ID)
	if err != nil {
		return nil, err
	}

	return assembleNavigation(entries), nil
}

func (s *Service) ensureIndex(ctx context.Context, dryRun bool) (*Index, error) {
	record, err := s.indexes.GetByCode(ctx, s.cfg.IndexCode)
	if err == nil {
		return record, nil
	}

	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		return nil, err
	}
	if dryRun {
		return nil, nil
	}

	created := &Index{
		ID:           s.idGen(),
		Code:         s.cfg.IndexCode,
		RootDocument: s.cfg.RootDocument,
		CreatedAt:    s.now(),
		UpdatedAt:    s.now(),
	}
	return s.indexes.Create(ctx, created)
}

func (s *Service) entryFromNode(record *Index, id uuid.UUID, flat flatNode, idsByKey map[string]uuid.UUID) *IndexEntry {
	entry := &IndexEntry{
		ID:           id,
		CanonicalKey: flat.key,
		Ref:          flat.node.Ref,
		Title:        flat.node.Title,
		SourcePath:   flat.node.Source,
		URL:          flat.node.URL,
		Caption:      flat.node.Caption,
		Position:     flat.node.Position,
		Depth:        flat.node.Depth,
		Hidden:       flat.node.Hidden,
		Numbered:     flat.node.Numbered,
		External:     flat.external,
		Checksum:     flat.checksum,
		CreatedAt:    s.now(),
		UpdatedAt:    s.now(),
	}
	if record != nil {
		entry.IndexID = record.ID
	}
	if flat.parentKey != "" {
		if parentID, ok := idsByKey[flat.parentKey]; ok {
			id := parentID
			entry.ParentID = &id
		}
	}
	return entry
}

func (s *Service) loadCorpus(ctx context.Context) (*corpus, error) {
	results, err := s.loader.LoadDirectory(ctx, ".", markdown.LoadParams{})
	if err != nil {
		return nil, err
	}
	return newCorpus(results), nil
}

// corpus indexes loaded documents by path and slug for reference resolution.
type corpus struct {
	docs   []*interfaces.Document
	byPath map[string]*interfaces.Document
	bySlug map[string]*interfaces.Document
}

func newCorpus(results []*markdown.DocumentResult) *corpus {
	c := &corpus{
		byPath: map[string]*interfaces.Document{},
		bySlug: map[string]*interfaces.Document{},
	}
	for _, result := range results {
		doc := result.Document
		c.docs = append(c.docs, doc)
		c.byPath[doc.FilePath] = doc
		if doc.Slug != "" {
			c.bySlug[doc.Slug] = doc
		}
	}
	return c
}

// resolve maps a directive reference onto a document. References are tried
// relative to the directory of the referring document first, then against the
// content root. Candidate forms follow the documentation toolchain contract:
// <ref>, <ref>.md, <ref>.ipynb, <ref>/index.md.
func (c *corpus) resolve(fromPath, ref string) *interfaces.Document {
	ref = strings.Trim(strings.TrimSpace(ref), "/")
	if ref == "" {
		return nil
	}

	dirs := []string{""}
	if dir := path.Dir(fromPath); dir != "." && dir != "" {
		dirs = []string{dir, ""}
	}

	for _, dir := range dirs {
		full := ref
		if dir != "" {
			full = path.Join(dir, ref)
		}
		for _, candidate := range []string{full, full + ".md", full + ".ipynb", full + "/index.md"} {
			if doc, ok := c.byPath[candidate]; ok {
				return doc
			}
		}
		if doc, ok := c.bySlug[full]; ok {
			return doc
		}
	}
	return nil
}

// globRefs expands a glob reference against the corpus in lexical order,
// excluding the referring document itself.
func (c *corpus) globRefs(fromPath, pattern string) []string {
	dir := path.Dir(fromPath)
	if dir == "." {
		dir = ""
	}
	full := pattern
	if dir != "" {
		full = path.Join(dir, pattern)
	}

	var refs []string
	for _, doc := range c.docs {
		if doc.FilePath == fromPath {
			continue
		}
		target := strings.TrimSuffix(doc.FilePath, path.Ext(doc.FilePath))
		if ok, err := path.Match(full, target); err == nil && ok {
			rel := target
			if dir != "" {
				rel = strings.TrimPrefix(target, dir+"/")
			}
			refs = append(refs, rel)
		}
	}
	sort.Strings(refs)
	return refs
}

type treeBuilder struct {
	corpus   *corpus
	resolver URLResolver
	report   *interfaces.ValidationReport
	// seen counts how many parents reference each document path; used for
	// multi-parent warnings and orphan detection.
	seen     map[string]int
	maxDepth int
}

// expand parses the document's directives and attaches resolved children to
// node. stack carries the current expansion path for cycle detection.
func (b *treeBuilder) expand(ctx context.Context, doc *interfaces.Document, node *interfaces.NavigationNode, stack []string) error {
	if markdown.IsNotebookPath(doc.FilePath) {
		return nil
	}

	depth := len(stack)
	if b.maxDepth > 0 && depth > b.maxDepth {
		return nil
	}

	directives, err := toc.Parse(doc.Body)
	if err != nil {
		line := 0
		var parseErr *toc.ParseError
		if errors.As(err, &parseErr) {
			line = parseErr.Line
		}
		b.issue(interfaces.SeverityError, IssueDirectiveParse, doc.FilePath, "", line, err.Error())
		return nil
	}

	for _, directive := range directives {
		if err := b.expandDirective(ctx, doc, node, directive, stack); err != nil {
			return err
		}
	}
	return nil
}

func (b *treeBuilder) expandDirective(ctx context.Context, doc *interfaces.Document, parent *interfaces.NavigationNode, directive toc.Directive, stack []string) error {
	for _, dupe := range directive.Duplicates() {
		b.issue(interfaces.SeverityError, IssueDuplicateEntry, doc.FilePath, dupe.Ref, dupe.Line,
			fmt.Sprintf("entry %q listed more than once", dupe.Ref))
	}

	placed := map[string]struct{}{}
	depth := len(stack)

	for _, entry := range directive.Entries {
		if _, ok := placed[entry.Ref]; ok {
			// First occurrence wins; the duplicate was already reported.
			continue
		}
		placed[entry.Ref] = struct{}{}

		refs := []toc.Entry{entry}
		if directive.Glob && strings.ContainsAny(entry.Ref, "*?[") {
			refs = refs[:0]
			for _, expanded := range b.corpus.globRefs(doc.FilePath, entry.Ref) {
				refs = append(refs, toc.Entry{Ref: expanded, Line: entry.Line})
			}
		}

		for _, ref := range refs {
			if err := b.placeEntry(ctx, doc, parent, directive, ref, depth, stack); err != nil {
				return err
			}
		}
	}
	return nil
}

func (b *treeBuilder) placeEntry(ctx context.Context, doc *interfaces.Document, parent *interfaces.NavigationNode, directive toc.Directive, entry toc.Entry, depth int, stack []string) error {
	node := interfaces.NavigationNode{
		Ref:      entry.Ref,
		Caption:  directive.Caption,
		Depth:    depth,
		Position: len(parent.Children),
		Hidden:   directive.Hidden,
		Numbered: directive.Numbered,
	}

	if entry.External() {
		node.Title = entry.Title
		if node.Title == "" {
			node.Title = entry.Ref
		}
		node.URL = entry.Ref
		parent.Children = append(parent.Children, node)
		return nil
	}

	target := b.corpus.resolve(doc.FilePath, entry.Ref)
	if target == nil {
		b.issue(interfaces.SeverityError, IssueUnresolvedRef, doc.FilePath, entry.Ref, entry.Line,
			fmt.Sprintf("reference %q does not resolve to a document", entry.Ref))
		return nil
	}

	for i, onPath := range stack {
		if onPath == target.FilePath {
			cycle := append(append([]string{}, stack[i:]...), target.FilePath)
			return fmt.Errorf("%w: %s", ErrReferenceCycle, strings.Join(cycle, " -> "))
		}
	}

	if b.seen[target.FilePath] > 0 {
		b.issue(interfaces.SeverityWarning, IssueMultipleParent, doc.FilePath, entry.Ref, entry.Line,
			fmt.Sprintf("document %s is reachable from multiple parents", target.FilePath))
	}
	b.seen[target.FilePath]++

	if target.FrontMatter.Draft {
		b.issue(interfaces.SeverityWarning, IssueDraftReference, doc.FilePath, entry.Ref, entry.Line,
			fmt.Sprintf("entry %q references a draft document", entry.Ref))
	}

	node.Title = entry.Title
	if node.Title == "" {
		node.Title = markdown.DocumentTitle(target)
	}
	node.Source = target.FilePath
	node.Hidden = node.Hidden || target.FrontMatter.Hidden

	if b.resolver != nil {
		url, err := b.resolver.Resolve(ctx, ResolveRequest{Slug: target.Slug, SourcePath: target.FilePath})
		if err != nil {
			return fmt.Errorf("index: resolve url for %s: %w", target.FilePath, err)
		}
		node.URL = url
	}

	withinBudget := directive.MaxDepth == 0 || depth < directive.MaxDepth
	if withinBudget {
		if err := b.expand(ctx, target, &node, append(stack, target.FilePath)); err != nil {
			return err
		}
	}

	parent.Children = append(parent.Children, node)
	return nil
}

func (b *treeBuilder) reportOrphans(root *interfaces.Document) {
	for _, doc := range b.corpus.docs {
		if doc.FilePath == root.FilePath {
			continue
		}
		if b.seen[doc.FilePath] == 0 {
			b.issue(interfaces.SeverityWarning, IssueOrphanDocument, doc.FilePath, "", 0,
				"document is not reachable from any index entry")
		}
	}
}

func (b *treeBuilder) issue(severity interfaces.IssueSeverity, code, source, ref string, line int, message string) {
	b.report.Issues = append(b.report.Issues, interfaces.ValidationIssue{
		Severity: severity,
		Code:     code,
		Source:   source,
		Ref:      ref,
		Line:     line,
		Message:  message,
	})
}

type flatNode struct {
	key       string
	parentKey string
	node      interfaces.NavigationNode
	external  bool
	checksum  string
}

// flattenTree walks the tree depth-first so parents always precede children,
// producing canonical keys from the ref chain.
func flattenTree(root *interfaces.NavigationNode) []flatNode {
	var out []flatNode
	if root == nil {
		return out
	}

	var walk func(parentKey string, node interfaces.NavigationNode)
	walk = func(parentKey string, node interfaces.NavigationNode) {
		key := node.Ref
		if parentKey != "" {
			key = parentKey + "/" + node.Ref
		}
		children := node.Children
		node.Children = nil
		out = append(out, flatNode{
			key:       key,
			parentKey: parentKey,
			node:      node,
			external:  node.Source == "" && node.URL != "",
			checksum:  nodeChecksum(node),
		})
		for _, child := range children {
			walk(key, child)
		}
	}

	for _, child := range root.Children {
		walk("", child)
	}
	return out
}

// nodeChecksum fingerprints the persisted fields so sync can skip unchanged
// entries without field-by-field comparison.
func nodeChecksum(node interfaces.NavigationNode) string {
	payload := fmt.Sprintf("%s|%s|%s|%s|%d|%d|%t|%t",
		node.Title, node.Source, node.URL, node.Caption,
		node.Position, node.Depth, node.Hidden, node.Numbered)
	return hex.EncodeToString(checksumBytes(payload))
}

func checksumBytes(payload string) []byte {
	sum := sha256.Sum256([]byte(payload))
	return sum[:8]
}

func entryUnchanged(entry *IndexEntry, flat flatNode) bool {
	return entry.Checksum == flat.checksum
}

func assembleNavigation(entries []*IndexEntry) []interfaces.NavigationNode {
	byParent := map[uuid.UUID][]*IndexEntry{}
	var roots []*IndexEntry
	for _, entry := range entries {
		if entry.ParentID == nil {
			roots = append(roots, entry)
			continue
		}
		byParent[*entry.ParentID] = append(byParent[*entry.ParentID], entry)
	}

	sortEntries(roots)
	for _, children := range byParent {
		sortEntries(children)
	}

	var convert func(entry *IndexEntry) interfaces.NavigationNode
	convert = func(entry *IndexEntry) interfaces.NavigationNode {
		node := interfaces.NavigationNode{
			Ref:      entry.Ref,
			Title:    entry.Title,
			URL:      entry.URL,
			Source:   entry.SourcePath,
			Caption:  entry.Caption,
			Depth:    entry.Depth,
			Position: entry.Position,
			Hidden:   entry.Hidden,
			Numbered: entry.Numbered,
		}
		for _, child := range byParent[entry.ID] {
			node.Children = append(node.Children, convert(child))
		}
		return node
	}

	nodes := make([]interfaces.NavigationNode, 0, len(roots))
	for _, root := range roots {
		nodes = append(nodes, convert(root))
	}
	return nodes
}

func sortEntries(entries []*IndexEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Position < entries[j].Position
	})
}
