package random

const (
	mtN         = 624
	mtM         = 397
	mtMatrixA   = 0x9908b0df
	mtUpperMask = 0x80000000
	mtLowerMask = 0x7fffffff

	// zeroSeedWord replaces a zero seed word. The 69069 recurrence keeps 0
	// at 0, so an all-zero state would only ever yield 0.
	zeroSeedWord = 4357
)

// twister is MT19937 with the 69069 multiplicative seeding recurrence.
type twister struct {
	mt  [mtN]uint32
	mti int
}

func newTwister(seed uint32) *twister {
	if seed == 0 {
		seed = zeroSeedWord
	}
	t := &twister{}
	t.mt[0] = seed
	for i := 1; i < mtN; i++ {
		t.mt[i] = 69069 * t.mt[i-1]
	}
	t.mti = mtN
	return t
}

func (t *twister) next() uint32 {
	if t.mti >= mtN {
		t.generate()
	}

	y := t.mt[t.mti]
	t.mti++

	y ^= y >> 11
	y ^= (y << 7) & 0x9d2c5680
	y ^= (y << 15) & 0xefc60000
	y ^= y >> 18
	return y
}

func (t *twister) generate() {
	mag01 := [2]uint32{0, mtMatrixA}

	var kk int
	for kk = 0; kk < mtN-mtM; kk++ {
		y := (t.mt[kk] & mtUpperMask) | (t.mt[kk+1] & mtLowerMask)
		t.mt[kk] = t.mt[kk+mtM] ^ (y >> 1) ^ mag01[y&0x1]
	}
	for ; kk < mtN-1; kk++ {
		y := (t.mt[kk] & mtUpperMask) | (t.mt[kk+1] & mtLowerMask)
		t.mt[kk] = t.mt[kk+(mtM-mtN)] ^ (y >> 1) ^ mag01[y&0x1]
	}
	y := (t.mt[mtN-1] & mtUpperMask) | (t.mt[0] & mtLowerMask)
	t.mt[mtN-1] = t.mt[mtM-1] ^ (y >> 1) ^ mag01[y&0x1]

	t.mti = 0
}
