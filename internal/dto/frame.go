package dto

type FrameMetadata struct {
	Min                      float64 `json:"min" example:"12"`
	Max                      float64 `json:"max" example:"244"`
	Mean                     float64 `json:"mean" example:"127.4"`
	Std                      float64 `json:"std" example:"41.2"`
	CompressionRatioOriginal float64 `json:"compression_ratio_original" example:"2.38"`
	CompressionRatioResized  float64 `json:"compression_ratio_resized" example:"2.12"`
}

type FrameResponse struct {
	Depth    float64       `json:"depth" example:"9000.1"`
	Data     string        `json:"data" example:"AAECAwQF..."`
	Metadata FrameMetadata `json:"metadata"`
}
