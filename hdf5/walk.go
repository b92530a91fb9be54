package hdf5

import (
	"errors"
	"fmt"
)

// WalkFunc is called for each object during traversal.
// path is the full path to the object.
// obj is either *Group or *Dataset.
// err is any error encountered opening the object.
// Return nil to continue walking, or an error to stop.
type WalkFunc func(path string, obj interface{}, err error) error

// Walk visits every object under g in the materialized tree, pre-order,
// the starting group first. Only hard links are visited; soft and
// external links stay on the path-based API.
//
// Example:
//
//	Walk(root, func(path string, obj interface{}, err error) error {
//	    if err != nil {
//	        return err // or skip: return nil
//	    }
//	    switch o := obj.(type) {
//	    case *Group:
//	        fmt.Println("Group:", path)
//	    case *Dataset:
//	        fmt.Println("Dataset:", path, "shape:", o.Shape())
//	    }
//	    return nil
//	})
func Walk(g *Group, fn WalkFunc) error {
	start, err := treeNodeFor(g)
	if err != nil {
		return err
	}

	it := start.tree.iterFrom(start)
	for {
		node, ok := it.Next()
		if !ok {
			return nil
		}
		if err := visitNode(node, fn); err != nil {
			return err
		}
	}
}

// treeNodeFor resolves a group handle back to its node in the
// materialized tree.
func treeNodeFor(g *Group) (TreeNode, error) {
	t, err := g.file.Tree()
	if err != nil {
		return TreeNode{}, err
	}
	node, ok := t.Find(g.path)
	if !ok {
		return TreeNode{}, fmt.Errorf("%w: %s", ErrNotFound, g.path)
	}
	return node, nil
}

// visitNode opens a tree node as its concrete type and hands it to fn.
// Open failures are reported through the callback, which decides whether
// they abort the walk.
func visitNode(node TreeNode, fn WalkFunc) error {
	if node.IsDataset() {
		ds, err := node.Dataset()
		if err != nil {
			return fn(node.Path(), nil, err)
		}
		return fn(node.Path(), ds, nil)
	}

	grp, err := node.Group()
	if err != nil {
		return fn(node.Path(), nil, err)
	}
	return fn(node.Path(), grp, nil)
}

// AttrInfo contains information about an attribute during walking.
type AttrInfo struct {
	// Path is the full attribute path (e.g., "/group/dataset@attr")
	Path string

	// ObjectPath is the path to the object containing this attribute
	ObjectPath string

	// ObjectType is "group" or "dataset"
	ObjectType string

	// Name is the attribute name
	Name string

	// Attr provides access to the full attribute for detailed reading
	Attr *Attribute

	// Value contains the auto-read attribute value (nil on read error)
	Value interface{}

	// Err contains any error from reading the attribute value
	Err error
}

// WalkAttrsFunc is the callback function type for WalkAttrs.
// Return nil to continue walking, or an error to stop.
type WalkAttrsFunc func(info AttrInfo) error

// WalkAttrs visits every attribute of every object in the materialized
// tree, in the tree's pre-order traversal order.
//
// Example:
//
//	f.WalkAttrs(func(info hdf5.AttrInfo) error {
//	    fmt.Printf("%s = %v\n", info.Path, info.Value)
//	    return nil
//	})
func (f *File) WalkAttrs(fn WalkAttrsFunc) error {
	if f.closed {
		return ErrClosed
	}

	t, err := f.Tree()
	if err != nil {
		return err
	}

	it := t.Iter()
	for {
		node, ok := it.Next()
		if !ok {
			return nil
		}
		if err := visitNodeAttrs(node, fn); err != nil {
			return err
		}
	}
}

// visitNodeAttrs reports each attribute of one tree node.
func visitNodeAttrs(node TreeNode, fn WalkAttrsFunc) error {
	objectType := "group"
	var names []string
	var lookup func(string) *Attribute

	if node.IsDataset() {
		ds, err := node.Dataset()
		if err != nil {
			return nil // unreadable object, skip its attributes
		}
		objectType = "dataset"
		names = ds.Attrs()
		lookup = ds.Attr
	} else {
		grp, err := node.Group()
		if err != nil {
			return nil
		}
		names = grp.Attrs()
		lookup = grp.Attr
	}

	for _, name := range names {
		info := AttrInfo{
			Path:       JoinAttrPath(node.Path(), name),
			ObjectPath: node.Path(),
			ObjectType: objectType,
			Name:       name,
			Attr:       lookup(name),
		}
		if info.Attr != nil {
			info.Value, info.Err = info.Attr.Value()
		}

		if err := fn(info); err != nil {
			return err
		}
	}

	return nil
}

// ErrStopWalk can be returned from a walk callback to stop walking
// without reporting an error.
var ErrStopWalk = errors.New("walk stopped")

// IsStopWalk returns true if the error is ErrStopWalk.
func IsStopWalk(err error) bool {
	return errors.Is(err, ErrStopWalk)
}
