//go:build amd64 && cgo

package simd

import "golang.org/x/sys/cpu"

func init() {
	if cpu.X86.HasAVX2 && cpu.X86.HasFMA {
		dotImpl = dotAVX2
		sqDistImpl = squaredDistanceAVX2
		implDesc = "AVX2"
	}
}
