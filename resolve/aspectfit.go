package resolve

import "math"

// FitRect computes the draw rectangle for placing a source of srcW x srcH
// inside a target of targetW x targetH while preserving the source aspect
// ratio. The remainder is centred letterbox padding; rasterizers fill it
// with opaque white so opaque output formats never get undefined pixels.
//
// A source wider than the target fits to width; otherwise it fits to height.
// Equal aspect ratios take the fit-to-height branch.
func FitRect(srcW, srcH, targetW, targetH int) (drawW, drawH, offX, offY int) {
	sourceAspect := float64(srcW) / float64(srcH)
	targetAspect := float64(targetW) / float64(targetH)

	if sourceAspect > targetAspect {
		drawW = targetW
		drawH = int(math.Round(float64(targetW) / sourceAspect))
		offY = (targetH - drawH) / 2
	} else {
		drawH = targetH
		drawW = int(math.Round(float64(targetH) * sourceAspect))
		offX = (targetW - drawW) / 2
	}
	return drawW, drawH, offX, offY
}
