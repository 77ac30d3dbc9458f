//go:build gocv
// +build gocv

package vision

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"

	"gocv.io/x/gocv"

	"road-vision/internal/domain/entity"
)

// YOLODetector детектор повреждений дорожного покрытия на базе DNN-модели
type YOLODetector struct {
	net           gocv.Net
	inputSize     int
	confThreshold float32
}

// NewYOLODetector загружает модель из файла весов.
func NewYOLODetector(modelPath string) (*YOLODetector, error) {
	net := gocv.ReadNet(modelPath, "")
	if net.Empty() {
		return nil, fmt.Errorf("failed to load model from %s", modelPath)
	}

	return &YOLODetector{
		net:           net,
		inputSize:     640,
		confThreshold: 0.25,
	}, nil
}

// Close освобождает ресурсы сети.
func (d *YOLODetector) Close() error {
	return d.net.Close()
}

// Detect прогоняет изображение через сеть и разбирает выход YOLO.
func (d *YOLODetector) Detect(ctx context.Context, imageData []byte) ([]entity.RawDetection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	blob := gocv.BlobFromImage(mat, 1.0/255.0, image.Pt(d.inputSize, d.inputSize),
		gocv.NewScalar(0, 0, 0, 0), true, false)
	defer blob.Close()

	d.net.SetInput(blob, "")
	output := d.net.Forward("")
	defer output.Close()

	return d.parseOutput(output, mat.Cols(), mat.Rows())
}

// parseOutput разбирает выход формата [1, 4+классы, N]:
// первые четыре строки — центр и размеры рамки, дальше — оценки классов.
func (d *YOLODetector) parseOutput(output gocv.Mat, imgW, imgH int) ([]entity.RawDetection, error) {
	dims := output.Size()
	if len(dims) != 3 || dims[1] < 5 {
		return nil, errors.New("unexpected model output shape")
	}

	rows := dims[1]
	cols := dims[2]
	classes := rows - 4

	flat := output.Reshape(1, rows)
	defer flat.Close()

	xScale := float64(imgW) / float64(d.inputSize)
	yScale := float64(imgH) / float64(d.inputSize)

	detections := make([]entity.RawDetection, 0)
	for c := 0; c < cols; c++ {
		bestClass := 0
		bestScore := float32(0)
		for k := 0; k < classes; k++ {
			score := flat.GetFloatAt(4+k, c)
			if score > bestScore {
				bestScore = score
				bestClass = k
			}
		}
		if bestScore < d.confThreshold {
			continue
		}

		cx := float64(flat.GetFloatAt(0, c))
		cy := float64(flat.GetFloatAt(1, c))
		w := float64(flat.GetFloatAt(2, c))
		h := float64(flat.GetFloatAt(3, c))

		detections = append(detections, entity.RawDetection{
			ClassID:    bestClass,
			Confidence: float64(bestScore),
			X1:         int((cx - w/2) * xScale),
			Y1:         int((cy - h/2) * yScale),
			X2:         int((cx + w/2) * xScale),
			Y2:         int((cy + h/2) * yScale),
		})
	}

	return detections, nil
}

// Render рисует рамку и подпись для каждой детекции и возвращает JPEG.
func (d *YOLODetector) Render(imageData []byte, detections []entity.RawDetection) ([]byte, error) {
	mat, err := decodeToMat(imageData)
	if err != nil {
		return nil, err
	}
	defer mat.Close()

	red := color.RGBA{R: 255, A: 255}
	for _, det := range detections {
		rect := image.Rect(det.X1, det.Y1, det.X2, det.Y2)
		gocv.Rectangle(&mat, rect, red, 2)

		label := fmt.Sprintf("%s (%.2f)", entity.MapDamageType(det.ClassID), det.Confidence)
		gocv.PutText(&mat, label, image.Pt(det.X1, det.Y1-10),
			gocv.FontHersheySimplex, 0.5, red, 1)
	}

	img, err := mat.ToImage()
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// decodeToMat превращает байты изображения в gocv.Mat.
func decodeToMat(imageData []byte) (gocv.Mat, error) {
	mat, err := gocv.IMDecode(imageData, gocv.IMReadColor)
	if err == nil && !mat.Empty() {
		return mat, nil
	}
	if !mat.Empty() {
		mat.Close()
	}
	return gocv.NewMat(), errors.New("failed to decode image")
}

var _ Backend = (*YOLODetector)(nil)
