package scalebar

import "errors"

var (
	// ErrInvalidRange 表示比例、透明度等参数超出允许区间。
	ErrInvalidRange = errors.New("value out of range")
	// ErrConflictingConfiguration 表示同一概念的两个别名取值不一致（例如 loc 与 location）。
	ErrConflictingConfiguration = errors.New("conflicting configuration")
	// ErrInvalidOption 表示无法识别的位置、旋转等枚举名称。
	ErrInvalidOption = errors.New("invalid option")
	// ErrZeroCalibration 表示像素标定为 0，无法换算长度。
	ErrZeroCalibration = errors.New("zero calibration factor")
)
