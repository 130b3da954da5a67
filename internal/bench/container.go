package bench

import (
	"slices"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bits-and-blooms/bitset"
	"github.com/google/btree"

	"github.com/hupe1980/packedset"
)

// Container is the set surface every benchmarked structure provides.
//
// Insert returns false when the value is present or the container is full.
// Values are below 2^Bits - 1 of the suite that created the container.
//
// Footprint approximates the bytes the container occupies in its current
// state: the adapter itself plus the storage it owns. Fixed-capacity
// containers count the storage their capacity needs, not the inline
// maximum the adapter reserves.
type Container interface {
	Name() string
	Insert(v uint64) bool
	Contains(v uint64) bool
	Erase(v uint64) bool
	Reset()
	Footprint() int
}

// Factory creates a container that holds up to size values of bits bits.
type Factory struct {
	Name string
	New  func(size, bits int) (Container, error)
}

// Factories returns the containers of the comparison suite, packed set first.
func Factories() []Factory {
	return []Factory{
		{"PackedSet", NewPackedSet},
		{"Bucketed", NewBucketed},
		{"Map", NewMap},
		{"Slice", NewSlice},
		{"SortedSlice", NewSortedSlice},
		{"Array", NewArray},
		{"BTree", NewBTree},
		{"Roaring", NewRoaring},
		{"Bitset", NewBitset},
	}
}

// FactoryByName looks up a comparison container.
func FactoryByName(name string) (Factory, bool) {
	for _, f := range Factories() {
		if f.Name == name {
			return f, true
		}
	}
	return Factory{}, false
}

type packedSetContainer struct {
	set packedset.Set
}

// NewPackedSet wraps packedset.Set.
func NewPackedSet(size, bits int) (Container, error) {
	s, err := packedset.New(size, bits)
	if err != nil {
		return nil, err
	}
	return &packedSetContainer{set: s}, nil
}

func (c *packedSetContainer) Name() string { return "PackedSet" }

func (c *packedSetContainer) Insert(v uint64) bool {
	ok, err := c.set.Insert(v)
	return ok && err == nil
}

func (c *packedSetContainer) Contains(v uint64) bool {
	ok, _ := c.set.Contains(v)
	return ok
}

func (c *packedSetContainer) Erase(v uint64) bool {
	ok, _ := c.set.Erase(v)
	return ok
}

func (c *packedSetContainer) Reset() { c.set.Clear() }

func (c *packedSetContainer) Footprint() int { return c.set.Footprint() }

type bucketedContainer struct {
	set  packedset.BucketedSet
	size int
}

// NewBucketed wraps packedset.BucketedSet. It only supports 11-bit values;
// other widths are rejected with packedset.ErrConfig. The set's capacity is
// per half, so the adapter also caps the total at size.
func NewBucketed(size, bits int) (Container, error) {
	if bits != 11 {
		return nil, &packedset.ConfigError{Capacity: size, Bits: bits, Reason: "bucketed layout stores 11-bit values"}
	}
	s, err := packedset.NewBucketed(size)
	if err != nil {
		return nil, err
	}
	return &bucketedContainer{set: s, size: size}, nil
}

func (c *bucketedContainer) Name() string { return "Bucketed" }

func (c *bucketedContainer) Insert(v uint64) bool {
	if c.set.Len() >= c.size {
		return false
	}
	ok, err := c.set.Insert(v)
	return ok && err == nil
}

func (c *bucketedContainer) Contains(v uint64) bool {
	ok, _ := c.set.Contains(v)
	return ok
}

func (c *bucketedContainer) Erase(v uint64) bool {
	ok, _ := c.set.Erase(v)
	return ok
}

func (c *bucketedContainer) Reset() { c.set.Clear() }

func (c *bucketedContainer) Footprint() int {
	return c.set.Footprint() + int(unsafe.Sizeof(c.size))
}

type mapContainer struct {
	m    map[uint64]struct{}
	size int
}

// NewMap is the hashed baseline.
func NewMap(size, _ int) (Container, error) {
	return &mapContainer{m: make(map[uint64]struct{}, size), size: size}, nil
}

func (c *mapContainer) Name() string { return "Map" }

func (c *mapContainer) Insert(v uint64) bool {
	if _, ok := c.m[v]; ok || len(c.m) >= c.size {
		return false
	}
	c.m[v] = struct{}{}
	return true
}

func (c *mapContainer) Contains(v uint64) bool {
	_, ok := c.m[v]
	return ok
}

func (c *mapContainer) Erase(v uint64) bool {
	if _, ok := c.m[v]; !ok {
		return false
	}
	delete(c.m, v)
	return true
}

func (c *mapContainer) Reset() { clear(c.m) }

// The runtime map is a swiss table: groups of 8 slots with a control word,
// grown to keep at most 7/8 of the slots full.
const (
	mapHeaderBytes = 48
	mapGroupSlots  = 8
	mapGroupBytes  = 8 + mapGroupSlots*8
)

// mapFootprint approximates a map[uint64]struct{} sized for n entries.
func mapFootprint(n int) int {
	slots := mapGroupSlots
	for slots*7 < n*8 {
		slots *= 2
	}
	return mapHeaderBytes + slots/mapGroupSlots*mapGroupBytes
}

// Footprint uses the allocation hint; the map never shrinks below it.
func (c *mapContainer) Footprint() int {
	return int(unsafe.Sizeof(*c)) + mapFootprint(max(c.size, len(c.m)))
}

type sliceContainer struct {
	vals []uint64
	size int
}

// NewSlice is the unsorted dynamic array baseline with linear search.
func NewSlice(size, _ int) (Container, error) {
	return &sliceContainer{vals: make([]uint64, 0, size), size: size}, nil
}

func (c *sliceContainer) Name() string { return "Slice" }

func (c *sliceContainer) Insert(v uint64) bool {
	if len(c.vals) >= c.size || slices.Contains(c.vals, v) {
		return false
	}
	c.vals = append(c.vals, v)
	return true
}

func (c *sliceContainer) Contains(v uint64) bool { return slices.Contains(c.vals, v) }

func (c *sliceContainer) Erase(v uint64) bool {
	i := slices.Index(c.vals, v)
	if i < 0 {
		return false
	}
	last := len(c.vals) - 1
	c.vals[i] = c.vals[last]
	c.vals = c.vals[:last]
	return true
}

func (c *sliceContainer) Reset() { c.vals = c.vals[:0] }

func (c *sliceContainer) Footprint() int {
	return int(unsafe.Sizeof(*c)) + cap(c.vals)*8
}

type sortedSliceContainer struct {
	vals []uint64
	size int
}

// NewSortedSlice is the sorted array baseline with binary search.
func NewSortedSlice(size, _ int) (Container, error) {
	return &sortedSliceContainer{vals: make([]uint64, 0, size), size: size}, nil
}

func (c *sortedSliceContainer) Name() string { return "SortedSlice" }

func (c *sortedSliceContainer) Insert(v uint64) bool {
	i, found := slices.BinarySearch(c.vals, v)
	if found || len(c.vals) >= c.size {
		return false
	}
	c.vals = slices.Insert(c.vals, i, v)
	return true
}

func (c *sortedSliceContainer) Contains(v uint64) bool {
	_, found := slices.BinarySearch(c.vals, v)
	return found
}

func (c *sortedSliceContainer) Erase(v uint64) bool {
	i, found := slices.BinarySearch(c.vals, v)
	if !found {
		return false
	}
	c.vals = slices.Delete(c.vals, i, i+1)
	return true
}

func (c *sortedSliceContainer) Reset() { c.vals = c.vals[:0] }

func (c *sortedSliceContainer) Footprint() int {
	return int(unsafe.Sizeof(*c)) + cap(c.vals)*8
}

// MaxArraySize bounds the fixed array baseline.
const MaxArraySize = 64

type arrayContainer struct {
	vals [MaxArraySize]uint64
	n    int
	size int
}

// NewArray is the fixed-size inline array baseline.
func NewArray(size, bits int) (Container, error) {
	if size <= 0 || size > MaxArraySize {
		return nil, &packedset.ConfigError{Capacity: size, Bits: bits, Reason: "array baseline holds 1..64 values"}
	}
	return &arrayContainer{size: size}, nil
}

func (c *arrayContainer) Name() string { return "Array" }

func (c *arrayContainer) index(v uint64) int {
	for i := 0; i < c.n; i++ {
		if c.vals[i] == v {
			return i
		}
	}
	return -1
}

func (c *arrayContainer) Insert(v uint64) bool {
	if c.n >= c.size || c.index(v) >= 0 {
		return false
	}
	c.vals[c.n] = v
	c.n++
	return true
}

func (c *arrayContainer) Contains(v uint64) bool { return c.index(v) >= 0 }

func (c *arrayContainer) Erase(v uint64) bool {
	i := c.index(v)
	if i < 0 {
		return false
	}
	c.n--
	c.vals[i] = c.vals[c.n]
	return true
}

func (c *arrayContainer) Reset() { c.n = 0 }

// Footprint counts an array of exactly size values plus the two counters.
func (c *arrayContainer) Footprint() int {
	return int(unsafe.Sizeof(c.n)+unsafe.Sizeof(c.size)) + c.size*8
}

// btreeDegree keeps small trees in a single node, the closest match to a
// node-based ordered set at these sizes.
const btreeDegree = 8

type btreeContainer struct {
	tree *btree.BTreeG[uint64]
	size int
}

// NewBTree is the ordered tree baseline.
func NewBTree(size, _ int) (Container, error) {
	return &btreeContainer{tree: btree.NewOrderedG[uint64](btreeDegree), size: size}, nil
}

func (c *btreeContainer) Name() string { return "BTree" }

func (c *btreeContainer) Insert(v uint64) bool {
	if c.tree.Len() >= c.size || c.tree.Has(v) {
		return false
	}
	c.tree.ReplaceOrInsert(v)
	return true
}

func (c *btreeContainer) Contains(v uint64) bool { return c.tree.Has(v) }

func (c *btreeContainer) Erase(v uint64) bool {
	_, ok := c.tree.Delete(v)
	return ok
}

func (c *btreeContainer) Reset() { c.tree.Clear(true) }

// google/btree keeps a tree header, a copy-on-write context and per node
// two slice headers and a context pointer.
const (
	btreeTreeBytes = 4*8 + 2*8
	btreeNodeBytes = 2*24 + 8
	btreeNodeItems = 2*btreeDegree - 1
)

// Footprint approximates the tree with fully packed nodes.
func (c *btreeContainer) Footprint() int {
	n := c.tree.Len()
	nodes := (n + btreeNodeItems - 1) / btreeNodeItems
	return int(unsafe.Sizeof(*c)) + btreeTreeBytes + nodes*btreeNodeBytes + n*8
}

type roaringContainer struct {
	bm   *roaring.Bitmap
	size int
}

// NewRoaring is the compressed bitmap baseline.
func NewRoaring(size, _ int) (Container, error) {
	return &roaringContainer{bm: roaring.New(), size: size}, nil
}

func (c *roaringContainer) Name() string { return "Roaring" }

func (c *roaringContainer) Insert(v uint64) bool {
	if int(c.bm.GetCardinality()) >= c.size {
		return false
	}
	return c.bm.CheckedAdd(uint32(v))
}

func (c *roaringContainer) Contains(v uint64) bool { return c.bm.Contains(uint32(v)) }

func (c *roaringContainer) Erase(v uint64) bool { return c.bm.CheckedRemove(uint32(v)) }

func (c *roaringContainer) Reset() { c.bm.Clear() }

func (c *roaringContainer) Footprint() int {
	return int(unsafe.Sizeof(*c)) + int(c.bm.GetSizeInBytes())
}

type bitsetContainer struct {
	bs   *bitset.BitSet
	n    int
	size int
}

// NewBitset is the flat bitmap baseline, sized for the whole value domain.
func NewBitset(size, bits int) (Container, error) {
	if bits <= 0 || bits > 24 {
		return nil, &packedset.ConfigError{Capacity: size, Bits: bits, Reason: "bitset baseline covers at most 24-bit values"}
	}
	return &bitsetContainer{bs: bitset.New(uint(1) << bits), size: size}, nil
}

func (c *bitsetContainer) Name() string { return "Bitset" }

func (c *bitsetContainer) Insert(v uint64) bool {
	if c.n >= c.size || c.bs.Test(uint(v)) {
		return false
	}
	c.bs.Set(uint(v))
	c.n++
	return true
}

func (c *bitsetContainer) Contains(v uint64) bool { return c.bs.Test(uint(v)) }

func (c *bitsetContainer) Erase(v uint64) bool {
	if !c.bs.Test(uint(v)) {
		return false
	}
	c.bs.Clear(uint(v))
	c.n--
	return true
}

func (c *bitsetContainer) Reset() {
	c.bs.ClearAll()
	c.n = 0
}

func (c *bitsetContainer) Footprint() int {
	return int(unsafe.Sizeof(*c)) + c.bs.BinaryStorageSize()
}
