package cfr

import (
	"testing"
)

func TestSlicePool_Zeroed(t *testing.T) {
	pool := &floatSlicePool{}
	v := pool.alloc(2)
	v[0], v[1] = 1, 2
	pool.free(v)

	v = pool.alloc(2)
	if v[0] != 0 || v[1] != 0 {
		t.Errorf("recycled slice not zeroed: %v", v)
	}
}

func BenchmarkSlicePoolAllocFree(b *testing.B) {
	pool := &floatSlicePool{}
	for i := 0; i < b.N; i++ {
		v := pool.alloc(2)
		pool.free(v)
	}
}
