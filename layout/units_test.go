package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.4, 72, 96, 144, 1000}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestPxScale 覆盖预览像素与页面毫米之间的换算。
func TestPxScale(t *testing.T) {
	s := PxScale{PreviewWidth: 672, PageWidth: 180}
	if got := s.MM(672); math.Abs(got-180) > 1e-9 {
		t.Fatalf("672px 应对应整页宽度 180mm，实际 %g", got)
	}
	if got := s.MM(32); math.Abs(got-32*180.0/672) > 1e-9 {
		t.Fatalf("32px 换算错误: %g", got)
	}
	// 3 倍导出：2016px / 180mm
	if got := s.DotsPerMM(3); math.Abs(got-11.2) > 1e-9 {
		t.Fatalf("3 倍导出分辨率期望 11.2 dpmm，实际 %g", got)
	}
}

// TestPxScaleZeroPreview 预览宽度缺失时按 1:1 处理，避免除零。
func TestPxScaleZeroPreview(t *testing.T) {
	s := PxScale{PageWidth: 180}
	if got := s.MM(10); got != 10 {
		t.Fatalf("预览宽度为 0 时应按 1:1 换算，实际 %g", got)
	}
}
