// This file contains redBlackTreeMap, a self-balancing binary search tree
// that keeps sorted key-value pairs with guaranteed O(log n) insertions,
// deletions and lookups. It implements the same MutableSortedMap contract as
// the flat map and serves as the pointer-based alternative when a workload is
// dominated by inserts and removes in the middle of the key space.
//
// Red-black trees enforce the following properties to maintain balance:
//  1. Every node is either red or black
//  2. The root is always black
//  3. All leaves (nil nodes) are considered black
//  4. Red nodes cannot have red children (no two consecutive red nodes on any path)
//  5. Every path from root to leaf contains the same number of black nodes
package maps

import (
	"cmp"
	"fmt"
	"iter"

	"github.com/amp-labs/amp-flat/bound"
	"github.com/amp-labs/amp-flat/compare"
	"github.com/amp-labs/amp-flat/optional"
	"github.com/amp-labs/amp-flat/sortable"
	"github.com/amp-labs/amp-flat/zero"
)

// visitor defines an interface for traversing red-black tree nodes.
// Visit returns false to stop traversal early.
type visitor[K any, V any] interface {
	Visit(node *rbtNode[K, V]) bool
}

// color represents the color of a red-black tree node.
type color bool

// String returns a human-readable representation of the node color.
func (c color) String() string {
	switch c {
	case true:
		return "Black"
	default:
		return "Red"
	}
}

// black and red are the two node colors in a red-black tree.
// Black is represented as true so nil-safe helpers can treat nil as black.
const black, red color = true, false

// rbtNode represents a single node in the red-black tree.
type rbtNode[K any, V any] struct {
	key    K
	value  V
	color  color
	left   *rbtNode[K, V]
	right  *rbtNode[K, V]
	parent *rbtNode[K, V]
}

// String returns a string representation of the node showing its key and color.
func (n *rbtNode[K, V]) String() string {
	return fmt.Sprintf("(%#v : %s)", n.key, n.color)
}

// redBlackTreeMap is a MutableSortedMap backed by a red-black tree.
// Size is tracked on every insert and delete, so it is O(1).
type redBlackTreeMap[K any, V any] struct {
	root *rbtNode[K, V]
	size int
	cmp  compare.Func[K]
}

var _ MutableSortedMap[sortable.Int, string] = (*redBlackTreeMap[sortable.Int, string])(nil)

// NewRedBlackTreeMap creates a new empty red-black tree map ordered by cmp.
func NewRedBlackTreeMap[K any, V any](cmp compare.Func[K]) MutableSortedMap[K, V] {
	return &redBlackTreeMap[K, V]{cmp: cmp}
}

// NewNaturalRedBlackTreeMap creates a red-black tree map over a built-in ordered key type.
func NewNaturalRedBlackTreeMap[K cmp.Ordered, V any]() MutableSortedMap[K, V] {
	return NewRedBlackTreeMap[K, V](compare.Natural[K]())
}

// NewSortableRedBlackTreeMap creates a red-black tree map over a Sortable key type.
func NewSortableRedBlackTreeMap[K sortable.Sortable[K], V any]() MutableSortedMap[K, V] {
	return NewRedBlackTreeMap[K, V](sortable.Comparator[K]())
}

// lookup walks from the root towards key. It returns the node holding key, or
// nil plus the node that would become the new node's parent.
func (t *redBlackTreeMap[K, V]) lookup(key K) (node *rbtNode[K, V], parent *rbtNode[K, V]) {
	this := t.root

	for this != nil {
		c := t.cmp(key, this.key)

		switch {
		case c == 0:
			return this, this.parent
		case c < 0:
			parent, this = this, this.left
		default:
			parent, this = this, this.right
		}
	}

	return nil, parent
}

// rotateRight performs a right rotation around node y:
//
//	    y              x
//	   / \            / \
//	  x   C   =>     A   y
//	 / \                / \
//	A   B              B   C
//
// nolint:dupword,varnamelen // ASCII art; standard RB tree variable names
func (t *redBlackTreeMap[K, V]) rotateRight(y *rbtNode[K, V]) {
	if y == nil || y.left == nil {
		return
	}

	x := y.left //nolint:varnamelen // Standard red-black tree variable names from CLRS
	y.left = x.right

	if x.right != nil {
		x.right.parent = y
	}

	x.parent = y.parent

	switch {
	case y.parent == nil:
		t.root = x
	case y == y.parent.left:
		y.parent.left = x
	default:
		y.parent.right = x
	}

	x.right = y
	y.parent = x
}

// rotateLeft performs a left rotation around node x:
//
//	  x                y
//	 / \              / \
//	A   y      =>    x   C
//	   / \          / \
//	  B   C        A   B
//
// nolint:varnamelen // Standard red-black tree variable names
func (t *redBlackTreeMap[K, V]) rotateLeft(x *rbtNode[K, V]) {
	if x == nil || x.right == nil {
		return
	}

	y := x.right //nolint:varnamelen // Standard red-black tree variable names from CLRS
	x.right = y.left

	if y.left != nil {
		y.left.parent = x
	}

	y.parent = x.parent

	switch {
	case x.parent == nil:
		t.root = y
	case x == x.parent.left:
		x.parent.left = y
	default:
		x.parent.right = y
	}

	y.left = x
	x.parent = y
}

func (t *redBlackTreeMap[K, V]) Get(key K) (V, bool) {
	node, _ := t.lookup(key)
	if node == nil {
		return zero.Value[V](), false
	}

	return node.value, true
}

func (t *redBlackTreeMap[K, V]) GetOrElse(key K, defaultValue V) V {
	value, found := t.Get(key)
	if !found {
		return defaultValue
	}

	return value
}

func (t *redBlackTreeMap[K, V]) GetKeyValue(key K) optional.Value[KeyValuePair[K, V]] {
	node, _ := t.lookup(key)
	if node == nil {
		return optional.None[KeyValuePair[K, V]]()
	}

	return optional.Some(KeyValuePair[K, V]{Key: node.key, Value: node.value})
}

func (t *redBlackTreeMap[K, V]) GetPtr(key K) *V {
	node, _ := t.lookup(key)
	if node == nil {
		return nil
	}

	return &node.value
}

func (t *redBlackTreeMap[K, V]) Update(key K, f func(value *V)) bool {
	node, _ := t.lookup(key)
	if node == nil {
		return false
	}

	f(&node.value)

	return true
}

func (t *redBlackTreeMap[K, V]) Contains(key K) bool {
	node, _ := t.lookup(key)

	return node != nil
}

// Insert adds or updates a key-value pair in the map.
// After inserting a new node, the tree is rebalanced to maintain red-black properties.
func (t *redBlackTreeMap[K, V]) Insert(key K, value V) optional.Value[V] {
	node, parent := t.lookup(key)
	if node != nil {
		previous := node.value
		node.value = value

		return optional.Some(previous)
	}

	t.size++

	if parent == nil {
		t.root = &rbtNode[K, V]{key: key, value: value, color: black}

		return optional.None[V]()
	}

	newNode := &rbtNode[K, V]{key: key, value: value, parent: parent, color: red}

	if t.cmp(key, parent.key) < 0 {
		parent.left = newNode
	} else {
		parent.right = newNode
	}

	t.fixupPut(newNode)

	return optional.None[V]()
}

// Remove deletes the key-value pair with the given key from the map.
// After deletion, the tree is rebalanced to maintain red-black properties.
func (t *redBlackTreeMap[K, V]) Remove(key K) optional.Value[V] {
	z, _ := t.lookup(key) //nolint:varnamelen // Standard red-black tree variable names from CLRS
	if z == nil {
		return optional.None[V]()
	}

	removed := z.value
	t.size--

	y := z //nolint:varnamelen // Standard red-black tree variable names from CLRS
	yOriginalColor := y.color

	var (
		x       *rbtNode[K, V] //nolint:varnamelen // Standard red-black tree variable names from CLRS
		xParent *rbtNode[K, V]
	)

	switch {
	case z.left == nil:
		x, xParent = z.right, z.parent
		t.transplant(z, z.right)
	case z.right == nil:
		x, xParent = z.left, z.parent
		t.transplant(z, z.left)
	default:
		y = t.getMinimum(z.right)
		yOriginalColor = y.color
		x = y.right

		if y.parent == z {
			xParent = y
		} else {
			xParent = y.parent
			t.transplant(y, y.right)
			y.right = z.right
			y.right.parent = y
		}

		t.transplant(z, y)

		y.left = z.left
		y.left.parent = y
		y.color = z.color
	}

	if yOriginalColor == black {
		t.fixupDelete(x, xParent)
	}

	return optional.Some(removed)
}

// Clear removes all entries from the map, resetting it to empty.
func (t *redBlackTreeMap[K, V]) Clear() {
	t.root = nil
	t.size = 0
}

func (t *redBlackTreeMap[K, V]) Size() int {
	return t.size
}

func (t *redBlackTreeMap[K, V]) IsEmpty() bool {
	return t.size == 0
}

func (t *redBlackTreeMap[K, V]) First() optional.Value[KeyValuePair[K, V]] {
	if t.root == nil {
		return optional.None[KeyValuePair[K, V]]()
	}

	node := t.getMinimum(t.root)

	return optional.Some(KeyValuePair[K, V]{Key: node.key, Value: node.value})
}

func (t *redBlackTreeMap[K, V]) Last() optional.Value[KeyValuePair[K, V]] {
	if t.root == nil {
		return optional.None[KeyValuePair[K, V]]()
	}

	node := t.root
	for node.right != nil {
		node = node.right
	}

	return optional.Some(KeyValuePair[K, V]{Key: node.key, Value: node.value})
}

// seqVisitor is a visitor implementation that yields nodes in sorted order.
type seqVisitor[K any, V any] struct {
	yield func(node *rbtNode[K, V]) bool
}

// Visit recursively traverses the tree in-order, yielding each node.
// Traversal stops early if yield returns false.
func (s *seqVisitor[K, V]) Visit(node *rbtNode[K, V]) bool {
	if node == nil {
		return true
	}

	if !s.Visit(node.left) {
		return false
	}

	if !s.yield(node) {
		return false
	}

	return s.Visit(node.right)
}

// rangeVisitor is an in-order visitor restricted to a key range. Subtrees that
// lie entirely below the start bound are skipped, and traversal stops at the
// first key past the end bound.
type rangeVisitor[K any, V any] struct {
	r     bound.Range[K]
	cmp   compare.Func[K]
	yield func(node *rbtNode[K, V]) bool
}

func (v *rangeVisitor[K, V]) afterStart(key K) bool {
	start, ok := v.r.Start.Key()
	if !ok {
		return true
	}

	if v.r.Start.Kind() == bound.Excluded {
		return v.cmp(key, start) > 0
	}

	return v.cmp(key, start) >= 0
}

func (v *rangeVisitor[K, V]) beforeEnd(key K) bool {
	end, ok := v.r.End.Key()
	if !ok {
		return true
	}

	if v.r.End.Kind() == bound.Excluded {
		return v.cmp(key, end) < 0
	}

	return v.cmp(key, end) <= 0
}

func (v *rangeVisitor[K, V]) Visit(node *rbtNode[K, V]) bool {
	if node == nil {
		return true
	}

	start, bounded := v.r.Start.Key()

	// Everything left of a node at or below the start key is out of range.
	if !bounded || v.cmp(node.key, start) > 0 {
		if !v.Visit(node.left) {
			return false
		}
	}

	if !v.beforeEnd(node.key) {
		return false
	}

	if v.afterStart(node.key) && !v.yield(node) {
		return false
	}

	return v.Visit(node.right)
}

// walk traverses the tree using the provided visitor.
func (t *redBlackTreeMap[K, V]) walk(visitor visitor[K, V]) {
	visitor.Visit(t.root)
}

func (t *redBlackTreeMap[K, V]) nodes() iter.Seq[*rbtNode[K, V]] {
	return func(yield func(*rbtNode[K, V]) bool) {
		t.walk(&seqVisitor[K, V]{yield: yield})
	}
}

// Seq returns an iterator over the map's key-value pairs in sorted order (by key).
func (t *redBlackTreeMap[K, V]) Seq() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for node := range t.nodes() {
			if !yield(node.key, node.value) {
				return
			}
		}
	}
}

func (t *redBlackTreeMap[K, V]) SeqMut() iter.Seq2[K, *V] {
	return func(yield func(K, *V) bool) {
		for node := range t.nodes() {
			if !yield(node.key, &node.value) {
				return
			}
		}
	}
}

func (t *redBlackTreeMap[K, V]) Range(r bound.Range[K]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		t.walk(&rangeVisitor[K, V]{
			r:   r,
			cmp: t.cmp,
			yield: func(node *rbtNode[K, V]) bool {
				return yield(node.key, node.value)
			},
		})
	}
}

func (t *redBlackTreeMap[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		for node := range t.nodes() {
			if !yield(node.key) {
				return
			}
		}
	}
}

func (t *redBlackTreeMap[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		for node := range t.nodes() {
			if !yield(node.value) {
				return
			}
		}
	}
}

func (t *redBlackTreeMap[K, V]) ValuesMut() iter.Seq[*V] {
	return func(yield func(*V) bool) {
		for node := range t.nodes() {
			if !yield(&node.value) {
				return
			}
		}
	}
}

func (t *redBlackTreeMap[K, V]) Entries() []KeyValuePair[K, V] {
	out := make([]KeyValuePair[K, V], 0, t.size)

	for key, value := range t.Seq() {
		out = append(out, KeyValuePair[K, V]{Key: key, Value: value})
	}

	return out
}

// ForEach applies the given function to each key-value pair in the map.
// Entries are processed in sorted order by key.
func (t *redBlackTreeMap[K, V]) ForEach(f func(key K, value V)) {
	for k, v := range t.Seq() {
		f(k, v)
	}
}

// ForAll returns true if the predicate returns true for all key-value pairs in the map.
// Returns true for an empty map.
func (t *redBlackTreeMap[K, V]) ForAll(predicate func(key K, value V) bool) bool {
	for key, value := range t.Seq() {
		if !predicate(key, value) {
			return false
		}
	}

	return true
}

// Exists returns true if at least one key-value pair satisfies the predicate.
func (t *redBlackTreeMap[K, V]) Exists(predicate func(key K, value V) bool) bool {
	for k, v := range t.Seq() {
		if predicate(k, v) {
			return true
		}
	}

	return false
}

// FindFirst returns the first key-value pair (in sorted order) that satisfies the predicate.
func (t *redBlackTreeMap[K, V]) FindFirst(predicate func(key K, value V) bool) optional.Value[KeyValuePair[K, V]] {
	for k, v := range t.Seq() {
		if predicate(k, v) {
			return optional.Some(KeyValuePair[K, V]{Key: k, Value: v})
		}
	}

	return optional.None[KeyValuePair[K, V]]()
}

func (t *redBlackTreeMap[K, V]) Comparator() compare.Func[K] {
	return t.cmp
}

func (t *redBlackTreeMap[K, V]) Extend(seq iter.Seq2[K, V]) {
	if seq == nil {
		return
	}

	for key, value := range seq {
		t.Insert(key, value)
	}
}

func (t *redBlackTreeMap[K, V]) Retain(predicate func(key K, value V) bool) {
	var doomed []K

	for key, value := range t.Seq() {
		if !predicate(key, value) {
			doomed = append(doomed, key)
		}
	}

	for _, key := range doomed {
		t.Remove(key)
	}
}

// Filter returns a new map containing only entries for which the predicate returns true.
func (t *redBlackTreeMap[K, V]) Filter(predicate func(key K, value V) bool) MutableSortedMap[K, V] {
	filtered := NewRedBlackTreeMap[K, V](t.cmp)

	for key, value := range t.Seq() {
		if predicate(key, value) {
			filtered.Insert(key, value)
		}
	}

	return filtered
}

// FilterNot returns a new map containing only entries for which the predicate returns false.
func (t *redBlackTreeMap[K, V]) FilterNot(predicate func(key K, value V) bool) MutableSortedMap[K, V] {
	return t.Filter(func(key K, value V) bool {
		return !predicate(key, value)
	})
}

// Clone returns a shallow copy of the map with the same key-value pairs.
func (t *redBlackTreeMap[K, V]) Clone() MutableSortedMap[K, V] {
	cloned := NewRedBlackTreeMap[K, V](t.cmp)

	for key, value := range t.Seq() {
		cloned.Insert(key, value)
	}

	return cloned
}

// transplant replaces the subtree rooted at node u with the subtree rooted at node v.
// This is a helper used during node deletion.
func (t *redBlackTreeMap[K, V]) transplant(u *rbtNode[K, V], v *rbtNode[K, V]) {
	switch {
	case u.parent == nil:
		t.root = v
	case u == u.parent.left:
		u.parent.left = v
	default:
		u.parent.right = v
	}

	if v != nil {
		v.parent = u.parent
	}
}

// isRed returns true if the node is red, false if the node is black or nil.
func isRed[K any, V any](n *rbtNode[K, V]) bool {
	return n != nil && n.color == red
}

// fixupPut restores red-black tree properties after inserting a new red node.
//
// The algorithm handles several cases:
//  1. New node is root - color it black
//  2. Parent is black - no violation, done
//  3. Parent is red:
//     a. Uncle is red - recolor parent, uncle, and grandparent
//     b. Uncle is black - perform rotations and recoloring
//
// nolint:varnamelen // Standard red-black tree variable names
func (t *redBlackTreeMap[K, V]) fixupPut(z *rbtNode[K, V]) {
	for z.parent != nil && z.parent.color == red {
		grandparent := z.parent.parent

		if z.parent == grandparent.left { //nolint:nestif // Red-black tree algorithm complexity
			y := grandparent.right
			if isRed(y) {
				z.parent.color = black
				y.color = black
				grandparent.color = red
				z = grandparent
			} else {
				if z == z.parent.right {
					z = z.parent
					t.rotateLeft(z)
				}

				z.parent.color = black
				z.parent.parent.color = red
				t.rotateRight(z.parent.parent)
			}
		} else {
			y := grandparent.left
			if isRed(y) {
				z.parent.color = black
				y.color = black
				grandparent.color = red
				z = grandparent
			} else {
				if z == z.parent.left {
					z = z.parent
					t.rotateRight(z)
				}

				z.parent.color = black
				z.parent.parent.color = red
				t.rotateLeft(z.parent.parent)
			}
		}
	}

	t.root.color = black
}

// fixupDelete restores red-black tree properties after deleting a black node.
// x is the node that moved into the deleted position and may be nil, so its
// parent is passed explicitly.
//
// The algorithm handles several cases based on the sibling (w) of x:
//  1. x is root or red - color it black, done
//  2. Sibling is red - rotate and recolor to create a black sibling
//  3. Sibling is black with two black children - recolor sibling, move problem up
//  4. Sibling is black with a red child - rotate and recolor to fix the violation
//
// nolint:varnamelen,dupl // Standard red-black tree variable names; symmetric cases
func (t *redBlackTreeMap[K, V]) fixupDelete(x *rbtNode[K, V], parent *rbtNode[K, V]) {
	for x != t.root && !isRed(x) && parent != nil {
		if x == parent.left {
			w := parent.right
			if isRed(w) {
				w.color = black
				parent.color = red
				t.rotateLeft(parent)
				w = parent.right
			}

			if w == nil {
				x, parent = parent, parent.parent

				continue
			}

			if !isRed(w.left) && !isRed(w.right) {
				w.color = red
				x, parent = parent, parent.parent

				continue
			}

			if !isRed(w.right) {
				w.left.color = black
				w.color = red
				t.rotateRight(w)
				w = parent.right
			}

			w.color = parent.color
			parent.color = black

			if w.right != nil {
				w.right.color = black
			}

			t.rotateLeft(parent)
			x = t.root
		} else {
			w := parent.left
			if isRed(w) {
				w.color = black
				parent.color = red
				t.rotateRight(parent)
				w = parent.left
			}

			if w == nil {
				x, parent = parent, parent.parent

				continue
			}

			if !isRed(w.left) && !isRed(w.right) {
				w.color = red
				x, parent = parent, parent.parent

				continue
			}

			if !isRed(w.left) {
				w.right.color = black
				w.color = red
				t.rotateLeft(w)
				w = parent.left
			}

			w.color = parent.color
			parent.color = black

			if w.left != nil {
				w.left.color = black
			}

			t.rotateRight(parent)
			x = t.root
		}
	}

	if x != nil {
		x.color = black
	}
}

// getMinimum returns the node with the minimum key in the subtree rooted at x.
func (t *redBlackTreeMap[K, V]) getMinimum(x *rbtNode[K, V]) *rbtNode[K, V] {
	for x.left != nil {
		x = x.left
	}

	return x
}
