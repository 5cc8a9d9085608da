package services

import (
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chmouel/lazycommit/internal/models"
)

// FileTreeNode is a directory or file in the browser tree.
type FileTreeNode struct {
	Path        string          // Absolute, forward-slash path; matches StatusCache keys for files
	Rel         string          // Path relative to the root, used for display
	IsFile      bool            // false for directories
	Children    []*FileTreeNode // nil for files
	Compression int             // Number of compressed path segments (e.g., "a/b" = 1)
	Depth       int             // Cached depth for rendering
}

// IsDir returns true if this node is a directory.
func (n *FileTreeNode) IsDir() bool {
	return !n.IsFile
}

// Name returns the display name for this node, including compressed parents.
func (n *FileTreeNode) Name() string {
	if n.Compression == 0 {
		return path.Base(n.Rel)
	}
	parts := strings.Split(n.Rel, "/")
	start := len(parts) - 1 - n.Compression
	if start < 0 {
		start = 0
	}
	return strings.Join(parts[start:], "/")
}

// Files returns the absolute paths of all files at or below n.
func (n *FileTreeNode) Files() []string {
	if n.IsFile {
		return []string{n.Path}
	}
	var out []string
	for _, child := range n.Children {
		out = append(out, child.Files()...)
	}
	return out
}

// CollectFiles walks the working tree at root and returns normalised absolute
// paths of every regular file, skipping repository metadata.
func CollectFiles(root string) ([]string, error) {
	base := filepath.Clean(filepath.FromSlash(root))
	var files []string
	err := filepath.WalkDir(base, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// unreadable entries are left out of the browser
			if d != nil && d.IsDir() && p != base {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if d.Name() == gitDirName {
				return filepath.SkipDir
			}
			return nil
		}
		files = append(files, filepath.ToSlash(p))
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// BuildFileTree groups absolute paths under root into a tree. Directories
// sort before files, single-child directory chains are compressed, and
// paths outside root are ignored.
func BuildFileTree(root string, paths []string) *FileTreeNode {
	root = strings.TrimSuffix(filepath.ToSlash(root), "/")
	tree := &FileTreeNode{Path: root, Children: make([]*FileTreeNode, 0)}
	byRel := make(map[string]*FileTreeNode)

	for _, abs := range paths {
		rel := strings.TrimPrefix(abs, root+"/")
		if rel == abs || rel == "" {
			continue
		}
		parts := strings.Split(rel, "/")
		current := tree
		for j := range parts {
			relSoFar := strings.Join(parts[:j+1], "/")
			if existing, ok := byRel[relSoFar]; ok {
				current = existing
				continue
			}
			node := &FileTreeNode{
				Path:   root + "/" + relSoFar,
				Rel:    relSoFar,
				IsFile: j == len(parts)-1,
			}
			if !node.IsFile {
				node.Children = make([]*FileTreeNode, 0)
			}
			current.Children = append(current.Children, node)
			byRel[relSoFar] = node
			current = node
		}
	}

	SortFileTree(tree)
	CompressFileTree(tree)
	return tree
}

// SortFileTree sorts tree nodes: directories first, then alphabetically.
func SortFileTree(node *FileTreeNode) {
	if node == nil || node.Children == nil {
		return
	}

	sort.Slice(node.Children, func(i, j int) bool {
		iIsDir := node.Children[i].IsDir()
		jIsDir := node.Children[j].IsDir()
		if iIsDir != jIsDir {
			return iIsDir
		}
		return node.Children[i].Rel < node.Children[j].Rel
	})

	for _, child := range node.Children {
		SortFileTree(child)
	}
}

// CompressFileTree squashes single-child directory chains (e.g., a/b/c becomes one node).
func CompressFileTree(node *FileTreeNode) {
	if node == nil {
		return
	}

	for _, child := range node.Children {
		CompressFileTree(child)
	}

	for i, child := range node.Children {
		for child.IsDir() && len(child.Children) == 1 && child.Children[0].IsDir() {
			grandchild := child.Children[0]
			grandchild.Compression += child.Compression + 1
			node.Children[i] = grandchild
			child = grandchild
		}
	}
}

// FlattenFileTree returns visible nodes respecting collapsed state, keyed by Rel.
func FlattenFileTree(node *FileTreeNode, collapsed map[string]bool, depth int) []*FileTreeNode {
	if node == nil {
		return nil
	}

	result := make([]*FileTreeNode, 0)

	// the root itself is not listed
	if node.Rel != "" {
		nodeCopy := *node
		nodeCopy.Depth = depth
		result = append(result, &nodeCopy)
		if collapsed[node.Rel] {
			return result
		}
	}

	childDepth := depth
	if node.Rel != "" {
		childDepth = depth + 1
	}
	for _, child := range node.Children {
		result = append(result, FlattenFileTree(child, collapsed, childDepth)...)
	}
	return result
}

// FileTreeService manages the browser tree state.
type FileTreeService struct {
	Tree          *FileTreeNode
	TreeFlat      []*FileTreeNode
	CollapsedDirs map[string]bool
	Index         int
}

// NewFileTreeService creates a new FileTreeService.
func NewFileTreeService() *FileTreeService {
	return &FileTreeService{
		CollapsedDirs: make(map[string]bool),
	}
}

// SetTree replaces the tree, keeping the selection on the same path when it still exists.
func (s *FileTreeService) SetTree(tree *FileTreeNode) {
	selected := s.SelectedPath()
	s.Tree = tree
	s.RebuildFlat()
	s.RestoreSelection(selected)
	s.ClampIndex()
}

// RebuildFlat rebuilds the flattened tree representation.
func (s *FileTreeService) RebuildFlat() {
	if s.CollapsedDirs == nil {
		s.CollapsedDirs = make(map[string]bool)
	}
	s.TreeFlat = FlattenFileTree(s.Tree, s.CollapsedDirs, 0)
}

// ToggleCollapse toggles a directory collapse state and rebuilds the flat list.
func (s *FileTreeService) ToggleCollapse(rel string) {
	if rel == "" {
		return
	}
	if s.CollapsedDirs == nil {
		s.CollapsedDirs = make(map[string]bool)
	}
	s.CollapsedDirs[rel] = !s.CollapsedDirs[rel]
	s.RebuildFlat()
	s.ClampIndex()
}

// Selected returns the selected node or nil.
func (s *FileTreeService) Selected() *FileTreeNode {
	if s.Index >= 0 && s.Index < len(s.TreeFlat) {
		return s.TreeFlat[s.Index]
	}
	return nil
}

// SelectedPath returns the relative path of the currently selected node.
func (s *FileTreeService) SelectedPath() string {
	if node := s.Selected(); node != nil {
		return node.Rel
	}
	return ""
}

// RestoreSelection sets Index based on the provided relative path if it exists.
func (s *FileTreeService) RestoreSelection(rel string) {
	if rel == "" {
		return
	}
	for i, node := range s.TreeFlat {
		if node.Rel == rel {
			s.Index = i
			return
		}
	}
}

// Move shifts the selection by delta, clamped to the list.
func (s *FileTreeService) Move(delta int) {
	s.Index += delta
	s.ClampIndex()
}

// ClampIndex ensures Index is within the valid range for the flat list.
func (s *FileTreeService) ClampIndex() {
	if s.Index < 0 {
		s.Index = 0
	}
	if len(s.TreeFlat) > 0 && s.Index >= len(s.TreeFlat) {
		s.Index = len(s.TreeFlat) - 1
	}
	if len(s.TreeFlat) == 0 {
		s.Index = 0
	}
}

// MergeStatusPaths adds paths reported by git but absent from files (deleted
// files, typically) so they still show up in the browser. Reported paths that
// are directories on disk are skipped: their files are already listed.
func MergeStatusPaths(files []string, snap *models.StatusSnapshot) []string {
	present := make(map[string]bool, len(files))
	for _, f := range files {
		present[f] = true
	}
	merged := append([]string(nil), files...)
	for _, entry := range snap.Entries() {
		if present[entry.Path] {
			continue
		}
		if info, err := os.Stat(filepath.FromSlash(entry.Path)); err == nil && info.IsDir() {
			continue
		}
		present[entry.Path] = true
		merged = append(merged, entry.Path)
	}
	sort.Strings(merged)
	return merged
}
