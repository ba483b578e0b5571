package integrator

import (
	"github.com/df07/go-cachepoint-renderer/pkg/core"
	"github.com/df07/go-cachepoint-renderer/pkg/scene"
)

// The MIS machinery expresses every strategy's sampling density relative to
// the plain bidirectional density of the current path, walking junction
// alternatives along each sub-path with reverse/forward area-density ratio
// products. The junction vertices' reverse densities depend on the other
// sub-path, so they are computed into locals here; the stored vertex pdfs
// are shared read-only across pixels and are never mutated.

// remap0 maps a zero (delta) density to one so ratio products pass through
// delta vertices unchanged
func remap0(f float64) float64 {
	if f != 0 {
		return f
	}
	return 1.0
}

// ResamplingFamilyDensity is the aggregate density charged for the
// resampling family at a junction, using the virtual-cache estimate Qp.
// The partial walks here and the estimator's own junction weight both use
// it, so every strategy assesses the family at the same density.
func ResamplingFamilyDensity(m int, qp float64) float64 {
	return float64(m) / ((float64(m)-1)*qp + 1)
}

// LightPartialMIS sums the densities of every strategy that would have
// placed the junction further toward the light origin: resampling at each
// interior light vertex plus unidirectional tracing at the origin.
// yz points from the light-side junction vertex toward the camera side,
// zy the reverse.
func LightPartialMIS(y *Path, s int, z *Path, t int, yz, zy core.Direction, cfg Config, qp float64) float64 {
	if s == 0 {
		return 0
	}

	// Reverse density of y_{s-1}: generated from the camera side
	var revTop float64
	if t == 1 {
		lens := &z.Vertices[0]
		if lens.Camera != nil {
			revTop = lens.convertPDFDensity(&y.Vertices[s-1], lens.Camera.DirectionPDF(zy.Vec()))
		}
	} else {
		zt := &z.Vertices[t-1]
		if zt.Material != nil {
			if pdf, isDelta := zt.Material.PDF(zt.IncomingDirection, zy.Vec(), zt.Normal); !isDelta {
				revTop = zt.convertPDFDensity(&y.Vertices[s-1], pdf)
			}
		}
	}

	// Reverse density of y_{s-2}: generated by scattering at y_{s-1}
	var revSecond float64
	if s >= 2 {
		ys := &y.Vertices[s-1]
		if ys.Material != nil {
			toPrev := y.Vertices[s-2].Point.Subtract(ys.Point)
			if toPrev.LengthSquared() > 0 {
				if pdf, isDelta := ys.Material.PDF(yz.Vec(), toPrev.Normalize(), ys.Normal); !isDelta {
					revSecond = ys.convertPDFDensity(&y.Vertices[s-2], pdf)
				}
			}
		}
	}

	sum := 0.0
	ri := 1.0
	for i := s - 1; i >= 0; i-- {
		v := &y.Vertices[i]
		pdfRev := v.AreaPdfReverse
		if i == s-1 {
			pdfRev = revTop
		} else if i == s-2 {
			pdfRev = revSecond
		}
		ri *= remap0(pdfRev) / remap0(v.AreaPdfForward)

		if i > 0 {
			if !v.IsSpecular && !y.Vertices[i-1].IsSpecular {
				sum += ri * ResamplingFamilyDensity(cfg.M, qp)
			}
		} else if !v.IsSpecular {
			// Unidirectional tracing reaches the light origin directly
			sum += ri
		}
	}
	return sum
}

// CameraPartialMIS sums the densities of every strategy that would have
// placed the junction further toward the lens: resampling at each interior
// camera vertex plus light tracing at the lens connection.
func CameraPartialMIS(sc *scene.Scene, y *Path, s int, z *Path, t int, yz, zy core.Direction, cfg Config, qp float64) float64 {
	if t < 2 {
		return 0
	}

	zt := &z.Vertices[t-1]

	// Reverse density of z_{t-1}: generated from the light side
	var revTop float64
	if s == 0 {
		revTop = lightOriginAreaPdf(sc, zt)
	} else {
		ys := &y.Vertices[s-1]
		if s == 1 {
			if ys.Light != nil {
				_, pdfDir := ys.Light.PDF_Le(ys.Point, yz.Vec())
				revTop = ys.convertPDFDensity(zt, pdfDir)
			}
		} else if ys.Material != nil {
			if pdf, isDelta := ys.Material.PDF(ys.IncomingDirection, yz.Vec(), ys.Normal); !isDelta {
				revTop = ys.convertPDFDensity(zt, pdf)
			}
		}
	}

	// Reverse density of z_{t-2}: emission from z_{t-1} when it terminates
	// the full path on a light, scattering at z_{t-1} otherwise
	var revSecond float64
	ztPrev := &z.Vertices[t-2]
	toPrev := ztPrev.Point.Subtract(zt.Point)
	if toPrev.LengthSquared() > 0 {
		w := toPrev.Normalize()
		if s == 0 {
			if zt.Light != nil {
				_, pdfDir := zt.Light.PDF_Le(zt.Point, w)
				revSecond = zt.convertPDFDensity(ztPrev, pdfDir)
			}
		} else if zt.Material != nil {
			if pdf, isDelta := zt.Material.PDF(zy.Vec(), w, zt.Normal); !isDelta {
				revSecond = zt.convertPDFDensity(ztPrev, pdf)
			}
		}
	}

	sum := 0.0
	ri := 1.0
	for i := t - 1; i >= 1; i-- {
		v := &z.Vertices[i]
		pdfRev := v.AreaPdfReverse
		if i == t-1 {
			pdfRev = revTop
		} else if i == t-2 {
			pdfRev = revSecond
		}
		ri *= remap0(pdfRev) / remap0(v.AreaPdfForward)

		if i >= 2 {
			if !v.IsSpecular && !z.Vertices[i-1].IsSpecular {
				sum += ri * ResamplingFamilyDensity(cfg.M, qp)
			}
		} else if !v.IsSpecular {
			// Light tracing connects to the lens with one sample per pixel
			sum += ri * float64(cfg.LightTracingCount)
		}
	}
	return sum
}

// lightOriginAreaPdf returns the density of sampling the vertex as a light
// path origin: position pdf times uniform light selection
func lightOriginAreaPdf(sc *scene.Scene, v *Vertex) float64 {
	if v.Light == nil || len(sc.Lights) == 0 {
		return 0
	}
	pdfPos, _ := v.Light.PDF_Le(v.Point, v.Normal)
	return pdfPos / float64(len(sc.Lights))
}
