package bgremove

import (
	"image"
	"image/color"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func randomImage(seed int64, w, h int) *image.NRGBA {
	rnd := rand.New(rand.NewSource(seed))
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	rnd.Read(img.Pix)
	for i := 3; i < len(img.Pix); i += 4 {
		img.Pix[i] = 255
	}
	return img
}

func transparentSet(img *image.NRGBA) map[image.Point]bool {
	set := map[image.Point]bool{}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.NRGBAAt(x, y) == (color.NRGBA{}) {
				set[image.Point{X: x, Y: y}] = true
			}
		}
	}
	return set
}

func TestDistance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		c    color.NRGBA
		ref  color.NRGBA
		want int
	}{
		{"same", color.NRGBA{R: 10, G: 20, B: 30, A: 255}, color.NRGBA{R: 10, G: 20, B: 30}, 0},
		{"alpha ignored", color.NRGBA{R: 1, G: 1, B: 1, A: 0}, color.NRGBA{R: 1, G: 1, B: 1, A: 255}, 0},
		{"symmetric", color.NRGBA{R: 0, G: 255, B: 5}, color.NRGBA{R: 255, G: 0, B: 10}, 515},
		{"scenario A", color.NRGBA{R: 200, G: 200, B: 200}, color.NRGBA{R: 10, G: 10, B: 10}, 570},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Distance(tt.c, tt.ref))
			assert.Equal(t, tt.want, Distance(tt.ref, tt.c))
		})
	}
}

func TestClassifyAndStrip_ScenarioA(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(0, 0, 2, 1))
	src.SetRGBA(0, 0, color.RGBA{R: 10, G: 10, B: 10, A: 255})
	src.SetRGBA(1, 0, color.RGBA{R: 200, G: 200, B: 200, A: 255})

	got := ClassifyAndStrip(src, 30)
	assert.Equal(t, color.NRGBA{}, got.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{R: 200, G: 200, B: 200, A: 255}, got.NRGBAAt(1, 0))
}

func TestClassifyAndStrip_StrictThreshold(t *testing.T) {
	t.Parallel()

	src := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 110, G: 110, B: 109, A: 255}) // 29
	src.SetNRGBA(2, 0, color.NRGBA{R: 110, G: 110, B: 110, A: 255}) // 30

	got := ClassifyAndStrip(src, 30)
	assert.Equal(t, color.NRGBA{}, got.NRGBAAt(1, 0))
	assert.Equal(t, color.NRGBA{R: 110, G: 110, B: 110, A: 255}, got.NRGBAAt(2, 0))
}

func TestClassifyAndStrip_ZeroToleranceKeepsEverything(t *testing.T) {
	t.Parallel()

	src := randomImage(1, 17, 9)
	got := ClassifyAndStrip(src, 0)
	assert.Equal(t, src.Pix, got.Pix)
	assert.NotSame(t, src, got)
}

func TestClassifyAndStrip_ReferencePixelAlwaysTransparent(t *testing.T) {
	t.Parallel()

	for seed := int64(0); seed < 10; seed++ {
		src := randomImage(seed, 8, 8)
		for _, tol := range []int{1, 30, 765, 1000} {
			got := ClassifyAndStrip(src, tol)
			assert.Equal(t, color.NRGBA{}, got.NRGBAAt(0, 0), "seed %d tolerance %d", seed, tol)
		}
	}
}

func TestClassifyAndStrip_Monotonic(t *testing.T) {
	t.Parallel()

	src := randomImage(42, 32, 32)
	prev := transparentSet(ClassifyAndStrip(src, 0))
	for tol := 50; tol <= 800; tol += 50 {
		cur := transparentSet(ClassifyAndStrip(src, tol))
		for p := range prev {
			assert.True(t, cur[p], "pixel %v lost transparency at tolerance %d", p, tol)
		}
		assert.GreaterOrEqual(t, len(cur), len(prev))
		prev = cur
	}
}

func TestClassifyAndStrip_InputUnchanged(t *testing.T) {
	t.Parallel()

	src := randomImage(7, 5, 5)
	before := append([]uint8(nil), src.Pix...)
	_ = ClassifyAndStrip(src, 765)
	assert.Equal(t, before, src.Pix)
}

func TestClassifyAndStrip_KeepsSourceAlpha(t *testing.T) {
	t.Parallel()

	src := image.NewNRGBA(image.Rect(0, 0, 2, 1))
	src.SetNRGBA(0, 0, color.NRGBA{A: 255})
	src.SetNRGBA(1, 0, color.NRGBA{R: 255, G: 255, B: 255, A: 128})

	got := ClassifyAndStrip(src, 30)
	assert.Equal(t, color.NRGBA{R: 255, G: 255, B: 255, A: 128}, got.NRGBAAt(1, 0))
}

func TestClassifyAndStrip_OffsetBoundsAndEmpty(t *testing.T) {
	t.Parallel()

	src := image.NewRGBA(image.Rect(3, 3, 5, 4))
	src.SetRGBA(3, 3, color.RGBA{R: 1, A: 255})
	src.SetRGBA(4, 3, color.RGBA{G: 255, A: 255})

	got := ClassifyAndStrip(src, 30)
	require.Equal(t, image.Rect(0, 0, 2, 1), got.Bounds())
	assert.Equal(t, color.NRGBA{}, got.NRGBAAt(0, 0))
	assert.Equal(t, color.NRGBA{G: 255, A: 255}, got.NRGBAAt(1, 0))

	empty := ClassifyAndStrip(image.NewNRGBA(image.Rect(0, 0, 0, 0)), 30)
	assert.True(t, empty.Bounds().Empty())
}

func TestReferenceColor_UsesTopLeftOfBounds(t *testing.T) {
	t.Parallel()

	img := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	img.SetNRGBA(0, 0, color.NRGBA{R: 1, A: 255})
	img.SetNRGBA(2, 2, color.NRGBA{B: 200, A: 255})

	sub := img.SubImage(image.Rect(2, 2, 4, 4)).(*image.NRGBA)
	assert.Equal(t, color.NRGBA{B: 200, A: 255}, ReferenceColor(sub))
	assert.Equal(t, color.NRGBA{R: 1, A: 255}, ReferenceColor(img))
	assert.Equal(t, color.NRGBA{}, ReferenceColor(image.NewNRGBA(image.Rectangle{})))
}

func TestClassifyAndStrip_SubImageMatchesDistance(t *testing.T) {
	t.Parallel()

	img := randomImage(7, 8, 8)
	sub := img.SubImage(image.Rect(3, 2, 8, 8)).(*image.NRGBA)
	bg := ReferenceColor(sub)

	got := ClassifyAndStrip(sub, 200)
	require.Equal(t, image.Rect(0, 0, 5, 6), got.Bounds())
	for y := 0; y < 6; y++ {
		for x := 0; x < 5; x++ {
			c := sub.NRGBAAt(x+3, y+2)
			if Distance(c, bg) < 200 {
				assert.Equal(t, color.NRGBA{}, got.NRGBAAt(x, y))
			} else {
				assert.Equal(t, c, got.NRGBAAt(x, y))
			}
		}
	}
}
