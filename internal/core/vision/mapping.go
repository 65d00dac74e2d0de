package vision

// Viewport 展示坐标系，归一化坐标按此矩形放大平移
type Viewport struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Convert 帧内归一化坐标 -> 展示坐标
func (v Viewport) Convert(p Point) Point {
	return Point{
		X: v.X + p.X*v.Width,
		Y: v.Y + p.Y*v.Height,
	}
}

// MapPoint 将眼睛轮廓点从人脸框内归一化坐标映射到展示坐标
// 先换算为帧内归一化坐标: (box.X + x*box.Width, box.Y + y*box.Height)，
// 再经视口变换，人脸每帧都会移动，不做缓存
func MapPoint(p Point, box Rect, v Viewport) Point {
	return v.Convert(Point{
		X: box.X + p.X*box.Width,
		Y: box.Y + p.Y*box.Height,
	})
}

// MapContour 对轮廓内每个点独立应用 MapPoint，nil 轮廓原样返回
func MapContour(c Contour, box Rect, v Viewport) Contour {
	if c == nil {
		return nil
	}
	out := make(Contour, len(c))
	for i, p := range c {
		out[i] = MapPoint(p, box, v)
	}
	return out
}
