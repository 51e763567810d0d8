package render

import "testing"

func redBlueChecker() *Texture {
	return NewCheckerTexture(4, 4, 1, RGB(255, 0, 0), RGB(0, 0, 255))
}

func TestSampleWrapsRepeat(t *testing.T) {
	tex := redBlueChecker()

	cases := []struct {
		name string
		u, v float64
	}{
		{"origin", 0.1, 0.1},
		{"mid", 0.6, 0.4},
		{"negative", -0.9, -0.5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := tex.Sample(c.u, c.v)
			want := tex.Sample(c.u+1, c.v)
			if got != want {
				t.Errorf("Sample(%v,%v)=%v, Sample(%v,%v)=%v: wrap-repeat broken", c.u, c.v, got, c.u+1, c.v, want)
			}
			wantV := tex.Sample(c.u, c.v+1)
			if got != wantV {
				t.Errorf("Sample(%v,%v)=%v, Sample(%v,%v)=%v: wrap-repeat broken on V", c.u, c.v, got, c.u, c.v+1, wantV)
			}
		})
	}
}

func TestSampleBilinearWrapsRepeat(t *testing.T) {
	tex := redBlueChecker()
	got := tex.SampleBilinear(0.2, 0.3)
	want := tex.SampleBilinear(1.2, 0.3)
	if got != want {
		t.Errorf("SampleBilinear wrap broken: %v != %v", got, want)
	}
}

func TestSampleEmptyTextureReturnsWhite(t *testing.T) {
	tex := &Texture{}
	if got := tex.Sample(0.5, 0.5); got != ColorWhite {
		t.Errorf("Sample on empty texture = %v, want white", got)
	}
	if got := tex.SampleBilinear(0.5, 0.5); got != ColorWhite {
		t.Errorf("SampleBilinear on empty texture = %v, want white", got)
	}
}

func TestSampleCornersMatchPixels(t *testing.T) {
	tex := NewTexture(2, 2)
	tex.SetPixel(0, 0, RGB(10, 20, 30))
	tex.SetPixel(1, 0, RGB(40, 50, 60))
	tex.SetPixel(0, 1, RGB(70, 80, 90))
	tex.SetPixel(1, 1, RGB(100, 110, 120))

	// v is flipped on sample: v=0 reads the bottom row (y=height-1), v close
	// to 1 reads the top row (y=0).
	if got, want := tex.Sample(0, 0), RGB(70, 80, 90); got != want {
		t.Errorf("Sample(0,0) = %v, want %v", got, want)
	}
	if got, want := tex.Sample(0, 0.999), RGB(10, 20, 30); got != want {
		t.Errorf("Sample(0,0.999) = %v, want %v", got, want)
	}
}

func TestSampleBilinearBlendsBetweenTexels(t *testing.T) {
	tex := NewTexture(2, 1)
	tex.SetPixel(0, 0, RGB(0, 0, 0))
	tex.SetPixel(1, 0, RGB(200, 0, 0))

	mid := tex.SampleBilinear(0.5, 0)
	if mid.R == 0 || mid.R == 200 {
		t.Errorf("SampleBilinear(0.5,0).R = %d, want a blend strictly between 0 and 200", mid.R)
	}
}
