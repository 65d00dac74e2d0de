package vision

import "math"

// 检测器输出的眼睛轮廓为定长点序，
// 下标 1 与 5 分别是上、下眼睑中点，该约定不可更改
const (
	UpperLidIndex = 1
	LowerLidIndex = 5

	minContourPoints = LowerLidIndex + 1
)

// Openness 计算睁眼程度：上下眼睑中点的垂直距离（展示坐标单位）
// 轮廓过短无法求值时返回 ok=false，缺失的眼睛不提供任何信号
func Openness(c Contour) (float64, bool) {
	if len(c) < minContourPoints {
		return 0, false
	}
	return math.Abs(c[LowerLidIndex].Y - c[UpperLidIndex].Y), true
}
