// Package condition transforms a page raster into the representation that
// maximizes OCR accuracy.
//
// The [Conditioner] applies a fixed sequence of steps to an image, each
// individually skippable via [Config] flags:
//
//	resize -> auto-rotate -> deskew -> grayscale -> denoise -> sharpen ->
//	contrast/brightness -> binarize
//
// Geometric corrections run before pixel-value corrections because geometric
// transforms resample pixel values; binarization runs last because it is
// irreversible.
//
//	cond := condition.NewConditioner()
//	result := cond.Condition(img, plan)
//	for _, step := range result.Steps {
//	    fmt.Println(step.Name, step.Applied, step.Err)
//	}
//
// No step may abort the pipeline: an algorithmic failure inside a step is
// recorded on the [Result] and the previous buffer is passed through
// unchanged. Conditioning is deterministic for identical inputs.
//
// # Binarization
//
// Six thresholding algorithms are available, selected by [Method]: Otsu's
// global method, and the Sauvola, Niblack, Bradley, Wolf, and adaptive-mean
// local methods. [MethodNone] skips binarization and leaves grayscale.
package condition
