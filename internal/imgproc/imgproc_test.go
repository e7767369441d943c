package imgproc

import (
	"math/rand"
	"testing"
)

func randomGray(w, h int, rng *rand.Rand) *Gray {
	g := NewGray(w, h)
	for i := range g.Pix {
		g.Pix[i] = uint8(rng.Intn(256))
	}
	return g
}

func TestInvertInvolution(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	g := randomGray(16, 16, rng)
	got := Invert(Invert(g))
	if !g.Equal(got) {
		t.Fatalf("invert(invert(g)) != g")
	}
}

func TestResizeRoundTripPreservesDimensions(t *testing.T) {
	rng := rand.New(rand.NewSource(2))
	g := randomGray(37, 51, rng)
	back := Resize(Resize(g, 20, 20), g.W, g.H)
	if back.W != g.W || back.H != g.H {
		t.Fatalf("dimensions not preserved: got %dx%d want %dx%d", back.W, back.H, g.W, g.H)
	}
}

func TestThresholdOtsuIdempotentOnBinarized(t *testing.T) {
	g := NewGray(8, 8)
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			if x < 4 {
				g.Set(x, y, 0)
			} else {
				g.Set(x, y, 255)
			}
		}
	}
	once := ThresholdOtsu(g)
	twice := ThresholdOtsu(once)
	if !once.Equal(twice) {
		t.Fatalf("otsu threshold not idempotent on already-binarized image")
	}
}

func TestGaussianBlurSmallSigmaApproachesIdentity(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	g := randomGray(12, 12, rng)
	blurred := GaussianBlur(g, 3, 1e-6)
	var maxDiff int
	for i := range g.Pix {
		d := int(g.Pix[i]) - int(blurred.Pix[i])
		if d < 0 {
			d = -d
		}
		if d > maxDiff {
			maxDiff = d
		}
	}
	if maxDiff > 1 {
		t.Fatalf("blur with near-zero sigma diverged too far from identity: maxDiff=%d", maxDiff)
	}
}

func TestDilateErodeMonotonic(t *testing.T) {
	g := NewGray(10, 10)
	g.Set(5, 5, 255)
	dilated := Dilate(g, 3)
	count := 0
	for _, v := range dilated.Pix {
		if v == 255 {
			count++
		}
	}
	if count <= 1 {
		t.Fatalf("dilate did not grow the foreground region")
	}
	eroded := Erode(dilated, 3)
	if eroded.At(5, 5) != 255 {
		t.Fatalf("erode(dilate(seed)) lost the original seed pixel")
	}
}

func TestOtsuMaximizesBetweenClassVariance(t *testing.T) {
	g := NewGray(4, 4)
	for y := 0; y < 4; y++ {
		for x := 0; x < 4; x++ {
			if x < 2 {
				g.Set(x, y, 10)
			} else {
				g.Set(x, y, 240)
			}
		}
	}
	th := OtsuThreshold(g)
	if th < 10 || th >= 240 {
		t.Fatalf("otsu threshold %d not between the two clusters", th)
	}
	bin := ThresholdFixed(g, th)
	for y := 0; y < 4; y++ {
		if bin.At(0, y) != 0 || bin.At(3, y) != 255 {
			t.Fatalf("binarization did not separate the two clusters at threshold %d", th)
		}
	}
}

func TestNormalizeToFloatRange(t *testing.T) {
	g := NewGray(2, 2)
	g.Pix = []uint8{0, 128, 255, 64}
	f := NormalizeToFloat(g)
	for _, v := range f {
		if v < 0 || v > 1 {
			t.Fatalf("normalized value %f out of [0,1]", v)
		}
	}
	if f[0] != 0 || f[2] != 1 {
		t.Fatalf("normalize endpoints wrong: %v", f)
	}
}

func TestCannyProducesBinaryEdges(t *testing.T) {
	g := NewGray(20, 20)
	for y := 0; y < 20; y++ {
		for x := 10; x < 20; x++ {
			g.Set(x, y, 255)
		}
	}
	edges := Canny(g, 50, 100)
	for _, v := range edges.Pix {
		if v != 0 && v != 255 {
			t.Fatalf("canny output not binary: got %d", v)
		}
	}
}
