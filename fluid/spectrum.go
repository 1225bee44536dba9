package fluid

// Spectrum is one velocity component in the padded real-to-complex layout.
// Before the forward transform row y holds Dim real samples followed by
// padding; afterwards it holds CPadW interleaved (re, im) coefficients.
type Spectrum struct {
	Layout
	Data []float32
}

// NewSpectrum allocates a zero buffer for the layout.
func NewSpectrum(l Layout) *Spectrum {
	return &Spectrum{
		Layout: l,
		Data:   make([]float32, l.Dim*l.RPadW),
	}
}

// Real returns real sample (x, y).
func (s *Spectrum) Real(x, y int) float32 {
	return s.Data[s.SpectralOffset(x, y)]
}

// SetReal stores real sample (x, y).
func (s *Spectrum) SetReal(x, y int, val float32) {
	s.Data[s.SpectralOffset(x, y)] = val
}

// Bin returns coefficient (kx, row).
func (s *Spectrum) Bin(kx, row int) complex64 {
	o := s.BinOffset(kx, row)
	return complex(s.Data[o], s.Data[o+1])
}

// SetBin stores coefficient (kx, row).
func (s *Spectrum) SetBin(kx, row int, c complex64) {
	o := s.BinOffset(kx, row)
	s.Data[o] = real(c)
	s.Data[o+1] = imag(c)
}

// Zero clears the buffer.
func (s *Spectrum) Zero() {
	clear(s.Data)
}

// Transform is the frequency-domain collaborator. Forward replaces the real
// samples of s with their 2-D DFT; Inverse does the reverse. Neither
// normalizes, so Inverse(Forward(x)) == Dim*Dim*x.
type Transform interface {
	Dim() int
	Forward(s *Spectrum)
	Inverse(s *Spectrum)
}
