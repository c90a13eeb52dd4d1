package engine

import (
	"math"

	"github.com/piwi3910/FoilCut/internal/model"
)

// BuildSurfaces derives the ordered list of surfaces to cover for a pool.
// Surfaces that the geometry does not call for are omitted rather than returned empty.
func BuildSurfaces(pool model.Pool, main, structural model.Material, s model.Settings) []model.Surface {
	mainMin, mainMax := main.Overlaps(s)
	structMin, structMax := structural.Overlaps(s)

	var surfaces []model.Surface

	// Bottom strips always run along the longer footprint side. A sloped bottom
	// stretches the side the slope runs along (the pool length).
	sloped := slopedLength(pool)
	bottomLen, bottomCover := sloped, pool.Width
	if pool.Width > pool.Length {
		bottomLen, bottomCover = pool.Width, sloped
	}
	surfaces = append(surfaces, model.Surface{
		Key:         model.SurfaceBottom,
		Label:       "Bottom",
		StripLength: bottomLen,
		CoverWidth:  bottomCover,
		Repetition:  1,
		MinOverlap:  mainMin,
		MaxOverlap:  mainMax,
		Foil:        model.FoilMain,
	})

	height := WallHeight(pool, s)
	surfaces = append(surfaces,
		model.Surface{
			Key:         model.SurfaceWallLong,
			Label:       "Long wall",
			StripLength: pool.Length,
			CoverWidth:  height,
			Repetition:  2,
			MinOverlap:  mainMin,
			MaxOverlap:  mainMax,
			Foil:        model.FoilMain,
		},
		model.Surface{
			Key:         model.SurfaceWallShort,
			Label:       "Short wall",
			StripLength: pool.Width,
			CoverWidth:  height,
			Repetition:  2,
			MinOverlap:  mainMin,
			MaxOverlap:  mainMax,
			Foil:        model.FoilMain,
		},
	)

	if st := pool.Stairs; st != nil && st.StepCount > 0 && st.StepDepth > 0 {
		width := st.Width
		if st.Full || width <= 0 {
			width = pool.Width
		}
		riser := pool.Depth / float64(st.StepCount+1)
		surfaces = append(surfaces, model.Surface{
			Key:         model.SurfaceStairs,
			Label:       "Stairs",
			StripLength: width,
			CoverWidth:  float64(st.StepCount) * (st.StepDepth + riser),
			Repetition:  1,
			MinOverlap:  structMin,
			MaxOverlap:  structMax,
			Foil:        model.FoilStructural,
		})
	}

	if pd := pool.Paddling; pd != nil && pd.Width > 0 && pd.Length > 0 {
		length, cover := pd.Length, pd.Width
		if pd.Width > pd.Length {
			length, cover = pd.Width, pd.Length
		}
		surfaces = append(surfaces, model.Surface{
			Key:         model.SurfacePaddling,
			Label:       "Paddling pool",
			StripLength: length,
			CoverWidth:  cover,
			Repetition:  1,
			MinOverlap:  structMin,
			MaxOverlap:  structMax,
			Foil:        model.FoilStructural,
		})

		if pd.DividingWallOffset > 0 {
			surfaces = append(surfaces, model.Surface{
				Key:         model.SurfaceDividingWall,
				Label:       "Dividing wall",
				StripLength: pd.Width,
				CoverWidth:  pd.DividingWallOffset + s.FoldAllowance,
				Repetition:  1,
				MinOverlap:  mainMin,
				MaxOverlap:  mainMax,
				Foil:        model.FoilMain,
			})
		}
	}

	return surfaces
}

// WallHeight is the strip width a wall needs: the deepest point plus the fold onto the bottom.
func WallHeight(pool model.Pool, s model.Settings) float64 {
	return pool.MaxDepth() + s.FoldAllowance
}

// WallSegments returns the perimeter of a rectangular pool in walking order.
func WallSegments(pool model.Pool) []model.WallSegment {
	return []model.WallSegment{
		{Label: "Long wall 1", Length: pool.Length},
		{Label: "Short wall 1", Length: pool.Width},
		{Label: "Long wall 2", Length: pool.Length},
		{Label: "Short wall 2", Length: pool.Width},
	}
}

func slopedLength(pool model.Pool) float64 {
	if pool.SlopeDepth <= pool.Depth {
		return pool.Length
	}
	rise := pool.SlopeDepth - pool.Depth
	return math.Hypot(pool.Length, rise)
}
