package audiograph

// Sampler reads the analyser once per rendered frame. It does not look at
// playback state; callers decide when sampling is meaningful.
type Sampler struct {
	src func() *Analyser
}

// NewSampler returns a Sampler that reads the analyser of p's graph, if
// the graph has been created.
func NewSampler(p *Provider) *Sampler {
	return &Sampler{src: func() *Analyser {
		if p == nil {
			return nil
		}
		g := p.Graph()
		if g == nil {
			return nil
		}
		return g.Analyser()
	}}
}

// Available reports whether an analyser exists to sample from.
func (s *Sampler) Available() bool {
	return s.analyser() != nil
}

func (s *Sampler) analyser() *Analyser {
	if s == nil || s.src == nil {
		return nil
	}
	return s.src()
}

// SampleFrequency returns a fresh buffer of FrequencyBinCount byte
// magnitudes, or an empty buffer when there is no analyser.
func (s *Sampler) SampleFrequency() []byte {
	a := s.analyser()
	if a == nil {
		return []byte{}
	}
	buf := make([]byte, a.FrequencyBinCount())
	a.ByteFrequencyData(buf)
	return buf
}

// SampleTimeDomain returns a fresh buffer of FFTSize time-domain bytes,
// or an empty buffer when there is no analyser.
func (s *Sampler) SampleTimeDomain() []byte {
	a := s.analyser()
	if a == nil {
		return []byte{}
	}
	buf := make([]byte, a.FFTSize())
	a.ByteTimeDomainData(buf)
	return buf
}
