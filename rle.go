package geococo

// COCO风格的掩膜RLE编解码。游程按列优先（Fortran序）统计，从背景开始交替；
// 游程数组再按pycocotools的5比特变长差分方案压缩为可打印字符串

// 编码掩膜，无损且确定
func EncodeRLE(m *Mask) Segmentation {
	var counts []int
	run := 0
	cur := uint8(0)
	for x := 0; x < m.Width; x++ {
		for y := 0; y < m.Height; y++ {
			p := m.Pix[y*m.Width+x]
			if p == cur {
				run++
				continue
			}
			counts = append(counts, run)
			cur = p
			run = 1
		}
	}
	counts = append(counts, run)
	return Segmentation{
		Size:   [2]int{m.Height, m.Width},
		Counts: encodeCounts(counts),
	}
}

// 解码为掩膜，decode(encode(m)) == m
func DecodeRLE(s Segmentation) (m *Mask, err error) {
	counts, err := decodeCounts(s.Counts)
	if err != nil {
		return
	}
	h, w := s.Size[0], s.Size[1]
	total := 0
	for _, c := range counts {
		if c < 0 {
			err = ErrCorruptRle
			return
		}
		total += c
	}
	if total != w*h {
		err = ErrRleSizeMismatch
		return
	}
	m = NewMask(w, h)
	pos := 0
	val := uint8(0)
	for _, c := range counts {
		for k := 0; k < c; k++ {
			x := pos / h
			y := pos % h
			m.Pix[y*w+x] = val
			pos++
		}
		val = 1 - val
	}
	return
}

// 前景像素数，只解游程不展开像素
func (s Segmentation) Area() (area int) {
	counts, err := decodeCounts(s.Counts)
	if err != nil {
		return
	}
	for i := 1; i < len(counts); i += 2 {
		area += counts[i]
	}
	return
}

func encodeCounts(counts []int) string {
	buf := make([]byte, 0, len(counts)*2)
	for i, c := range counts {
		x := c
		if i > 2 {
			x -= counts[i-2] // 同相游程取差分
		}
		for more := true; more; {
			ch := x & 0x1f
			x >>= 5
			if ch&0x10 != 0 {
				more = x != -1
			} else {
				more = x != 0
			}
			if more {
				ch |= 0x20
			}
			buf = append(buf, byte(ch+48))
		}
	}
	return string(buf)
}

func decodeCounts(s string) (counts []int, err error) {
	for pos := 0; pos < len(s); {
		x, k := 0, 0
		more := true
		for more {
			if pos >= len(s) {
				err = ErrCorruptRle
				return
			}
			c := int(s[pos]) - 48
			if c < 0 || c > 0x3f {
				err = ErrCorruptRle
				return
			}
			x |= (c & 0x1f) << (5 * k)
			more = c&0x20 != 0
			pos++
			k++
			if !more && c&0x10 != 0 {
				x |= -1 << (5 * k)
			}
		}
		if len(counts) > 2 {
			x += counts[len(counts)-2]
		}
		counts = append(counts, x)
	}
	return
}
