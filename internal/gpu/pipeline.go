package gpu

// PipelineState is the blend and depth configuration shared by every draw
// between two state changes of the frame.
type PipelineState struct {
	Blend      bool
	BlendSrc   BlendFactor
	BlendDst   BlendFactor
	DepthFunc  DepthFunc
	DepthWrite bool
}

// InitialState is set once when the engine starts: alpha blending with
// regular depth testing.
func InitialState() PipelineState {
	return PipelineState{
		Blend:      true,
		BlendSrc:   SrcAlpha,
		BlendDst:   OneMinusSrcAlpha,
		DepthFunc:  Less,
		DepthWrite: true,
	}
}

// AdditiveState accumulates light passes onto surfaces already written by
// the opaque pass.
func AdditiveState() PipelineState {
	return PipelineState{
		Blend:      true,
		BlendSrc:   One,
		BlendDst:   One,
		DepthFunc:  Equal,
		DepthWrite: false,
	}
}

// RestoredState is applied after the additive passes of each camera.
func RestoredState() PipelineState {
	return PipelineState{
		Blend:      false,
		BlendSrc:   One,
		BlendDst:   One,
		DepthFunc:  Less,
		DepthWrite: true,
	}
}

// Apply issues the commands needed to put the backend into s
func (s PipelineState) Apply(b Backend) {
	if s.Blend {
		b.Enable(Blend)
		b.BlendFunc(s.BlendSrc, s.BlendDst)
	} else {
		b.Disable(Blend)
	}
	b.DepthMask(s.DepthWrite)
	b.DepthFunc(s.DepthFunc)
}
