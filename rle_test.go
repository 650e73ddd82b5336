package geococo

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func maskFromRows(rows []string) *Mask {
	h := len(rows)
	w := len(rows[0])
	m := NewMask(w, h)
	for y, row := range rows {
		for x := 0; x < w; x++ {
			if row[x] != '.' {
				m.Pix[y*w+x] = 1
			}
		}
	}
	return m
}

func TestRleRoundTrip(t *testing.T) {
	cases := map[string]*Mask{
		"empty": NewMask(7, 5),
		"full": func() *Mask {
			m := NewMask(4, 3)
			for i := range m.Pix {
				m.Pix[i] = 1
			}
			return m
		}(),
		"single": func() *Mask {
			m := NewMask(9, 9)
			m.Pix[4*9+4] = 1
			return m
		}(),
		"checker": func() *Mask {
			m := NewMask(6, 6)
			for y := 0; y < 6; y++ {
				for x := 0; x < 6; x++ {
					if (x+y)%2 == 0 {
						m.Pix[y*6+x] = 1
					}
				}
			}
			return m
		}(),
		"blob": maskFromRows([]string{
			"........",
			"..####..",
			"..####..",
			"..#..#..",
			"..####..",
			"........",
		}),
	}
	for name, m := range cases {
		t.Run(name, func(t *testing.T) {
			seg := EncodeRLE(m)
			assert.Equal(t, [2]int{m.Height, m.Width}, seg.Size)
			got, err := DecodeRLE(seg)
			require.NoError(t, err)
			assert.Equal(t, m, got)
			assert.Equal(t, m.Area(), seg.Area())
		})
	}
}

func TestRleRoundTripRandom(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		w := 1 + rng.Intn(64)
		h := 1 + rng.Intn(64)
		m := NewMask(w, h)
		for j := range m.Pix {
			if rng.Intn(3) == 0 {
				m.Pix[j] = 1
			}
		}
		seg := EncodeRLE(m)
		got, err := DecodeRLE(seg)
		require.NoError(t, err)
		require.Equal(t, m, got)
		require.Equal(t, m.Area(), seg.Area())
	}
}

func TestRleColumnMajor(t *testing.T) {
	// 左上角单像素的2x2掩膜，列优先序为[1 0 0 0]，游程为[0 1 3]
	m := NewMask(2, 2)
	m.Pix[0] = 1
	seg := EncodeRLE(m)
	counts, err := decodeCounts(seg.Counts)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 3}, counts)
}

func TestRleLeadingBackgroundRun(t *testing.T) {
	// 首像素即前景时，背景游程为0但不能省略
	m := NewMask(3, 1)
	for i := range m.Pix {
		m.Pix[i] = 1
	}
	counts, err := decodeCounts(EncodeRLE(m).Counts)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, counts)
}

func TestCountsDifferenceCoding(t *testing.T) {
	// 差分可为负，编码需带符号扩展
	in := []int{100, 5, 3, 200, 1, 7}
	out, err := decodeCounts(encodeCounts(in))
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestDecodeRleCorrupt(t *testing.T) {
	// 截断的延续字节
	_, err := decodeCounts("\x7f")
	assert.ErrorIs(t, err, ErrCorruptRle)

	// 48以下的字符不在字母表内
	_, err = decodeCounts("0!")
	assert.ErrorIs(t, err, ErrCorruptRle)
}

func TestDecodeRleSizeMismatch(t *testing.T) {
	seg := EncodeRLE(NewMask(4, 4))
	seg.Size = [2]int{4, 5}
	_, err := DecodeRLE(seg)
	assert.ErrorIs(t, err, ErrRleSizeMismatch)
}
