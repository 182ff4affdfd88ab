package layout

// pt 与 mm 之间的换算系数。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// LineHeightFactor 与编辑器中 line-height: 1.4 一致。
const LineHeightFactor = 1.4

// PxScale 把编辑器预览中的像素换算为导出页面上的毫米：
// 预览宽度 PreviewWidth 像素对应页面宽度 PageWidth 毫米。
type PxScale struct {
	PreviewWidth float64
	PageWidth    float64
}

func (s PxScale) ratio() float64 {
	if s.PreviewWidth <= 0 {
		return 1
	}
	return s.PageWidth / s.PreviewWidth
}

// MM 把像素换算为毫米。
func (s PxScale) MM(px float64) float64 { return px * s.ratio() }

// DotsPerMM 返回以 factor 倍预览分辨率导出时每毫米的像素数。
func (s PxScale) DotsPerMM(factor float64) float64 {
	if s.PageWidth <= 0 {
		return factor
	}
	return factor * s.PreviewWidth / s.PageWidth
}
