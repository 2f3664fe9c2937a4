package conv

import (
	"math/rand/v2"
	"testing"

	"github.com/arloliu/hexpipe/kernel"
	"github.com/arloliu/hexpipe/signal"
)

func BenchmarkConvolve2D_64x64(b *testing.B) {
	rng := rand.New(rand.NewPCG(1, 1))
	in, err := signal.NewMatrix(signal.Shape{Height: 64, Width: 64}, randomStream(rng, 64*64))
	if err != nil {
		b.Fatal(err)
	}
	k := kernel.Scharr.Kernel()

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Convolve2D(in, k); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkReferenceBank_64x64(b *testing.B) {
	rng := rand.New(rand.NewPCG(2, 2))
	in, err := signal.NewMatrix(signal.Shape{Height: 64, Width: 64}, randomStream(rng, 64*64))
	if err != nil {
		b.Fatal(err)
	}

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := ReferenceBank(in); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkPipeline1D(b *testing.B) {
	rng := rand.New(rand.NewPCG(3, 3))
	in := randomStream(rng, 25*25)

	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Pipeline1D(in, "gaussian"); err != nil {
			b.Fatal(err)
		}
	}
}
