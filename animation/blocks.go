package animation

import (
	"encoding/binary"
	"image"
)

const (
	blockExtension  = 0x21
	blockImage      = 0x2C
	blockTrailer    = 0x3B
	labelGraphicCtl = 0xF9

	headerLen   = 6
	screenLen   = 7
	colorTables = 0x80
)

// frameBlock 图像描述符中与解码前检查相关的信息
type frameBlock struct {
	Rect image.Rectangle
	// HasControl 该帧前是否有图形控制扩展（帧延时、透明色、disposal）
	HasControl bool
}

// layout 不解压像素数据，只扫描 GIF 的块结构
type layout struct {
	Width, Height int
	Frames        []frameBlock
	// Complete 扫描到了结束块
	Complete bool
	// LoopOffset 全局颜色表之后的位置，应用扩展可插入于此
	LoopOffset int
}

// scanLayout 扫描块结构；遇到截断或未知块时停止，Complete 为 false
func scanLayout(data []byte) layout {
	var l layout
	if len(data) < headerLen+screenLen || string(data[:3]) != "GIF" {
		return l
	}
	l.Width = int(binary.LittleEndian.Uint16(data[6:8]))
	l.Height = int(binary.LittleEndian.Uint16(data[8:10]))

	pos := headerLen + screenLen
	if flags := data[10]; flags&colorTables != 0 {
		pos += 3 * (1 << (flags&7 + 1))
	}
	if pos > len(data) {
		return l
	}
	l.LoopOffset = pos

	control := false
	for pos < len(data) {
		switch data[pos] {
		case blockTrailer:
			l.Complete = true
			return l
		case blockExtension:
			if pos+2 > len(data) {
				return l
			}
			if data[pos+1] == labelGraphicCtl {
				control = true
			}
			next, ok := skipSubBlocks(data, pos+2)
			if !ok {
				return l
			}
			pos = next
		case blockImage:
			if pos+10 > len(data) {
				return l
			}
			d := data[pos+1 : pos+10]
			left := int(binary.LittleEndian.Uint16(d[0:2]))
			top := int(binary.LittleEndian.Uint16(d[2:4]))
			w := int(binary.LittleEndian.Uint16(d[4:6]))
			h := int(binary.LittleEndian.Uint16(d[6:8]))
			l.Frames = append(l.Frames, frameBlock{
				Rect:       image.Rect(left, top, left+w, top+h),
				HasControl: control,
			})
			control = false

			pos += 10
			if flags := d[8]; flags&colorTables != 0 {
				pos += 3 * (1 << (flags&7 + 1))
			}
			// LZW 最小码长
			pos++
			next, ok := skipSubBlocks(data, pos)
			if !ok {
				return l
			}
			pos = next
		default:
			return l
		}
	}
	return l
}

// skipSubBlocks 跳过以 0 长度块结尾的数据子块序列
func skipSubBlocks(data []byte, pos int) (int, bool) {
	for pos < len(data) {
		n := int(data[pos])
		pos++
		if n == 0 {
			return pos, true
		}
		pos += n
	}
	return pos, false
}

// loopBlock NETSCAPE2.0 应用扩展
func loopBlock(loopCount int) []byte {
	b := []byte{blockExtension, 0xFF, 0x0B}
	b = append(b, "NETSCAPE2.0"...)
	return append(b, 0x03, 0x01, byte(loopCount), byte(loopCount>>8), 0x00)
}
