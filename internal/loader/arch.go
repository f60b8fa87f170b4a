package loader

import (
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"fmt"
	"io"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/afero"
)

// CheckArch는 바이너리 헤더의 아키텍처를 호스트(runtime.GOARCH)와 비교합니다.
// 헤더를 읽을 수 없거나 형식을 모르면 판단을 동적 로더에 맡기고 nil을 반환합니다.
func CheckArch(fs afero.Fs, path string) error {
	f, err := fs.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	archs, ok := DetectArch(f)
	if !ok || slices.Contains(archs, runtime.GOARCH) {
		return nil
	}

	return fmt.Errorf("%w: library is %s, host is %s",
		ErrArchMismatch, strings.Join(archs, "/"), runtime.GOARCH)
}

// DetectArch는 ELF, Mach-O(유니버설 포함), PE 헤더에서 GOARCH 이름을 추출합니다.
func DetectArch(r io.ReaderAt) ([]string, bool) {
	if f, err := elf.NewFile(r); err == nil {
		return []string{elfArch(f)}, true
	}
	if f, err := macho.NewFile(r); err == nil {
		return []string{machoArch(f.Cpu)}, true
	}
	if f, err := macho.NewFatFile(r); err == nil {
		archs := make([]string, 0, len(f.Arches))
		for _, a := range f.Arches {
			archs = append(archs, machoArch(a.Cpu))
		}
		return archs, true
	}
	// MZ 스텁이 없는 COFF 오브젝트는 판별하지 않습니다
	var mz [2]byte
	if _, err := r.ReadAt(mz[:], 0); err != nil || mz != [2]byte{'M', 'Z'} {
		return nil, false
	}
	if f, err := pe.NewFile(r); err == nil {
		return []string{peArch(f.Machine)}, true
	}
	return nil, false
}

func elfArch(f *elf.File) string {
	switch f.Machine {
	case elf.EM_X86_64:
		return "amd64"
	case elf.EM_386:
		return "386"
	case elf.EM_AARCH64:
		return "arm64"
	case elf.EM_ARM:
		return "arm"
	case elf.EM_RISCV:
		if f.Class == elf.ELFCLASS64 {
			return "riscv64"
		}
		return "riscv"
	case elf.EM_PPC64:
		if f.Data == elf.ELFDATA2LSB {
			return "ppc64le"
		}
		return "ppc64"
	case elf.EM_S390:
		return "s390x"
	case elf.EM_LOONGARCH:
		return "loong64"
	default:
		return strings.ToLower(f.Machine.String())
	}
}

func machoArch(cpu macho.Cpu) string {
	switch cpu {
	case macho.CpuAmd64:
		return "amd64"
	case macho.Cpu386:
		return "386"
	case macho.CpuArm64:
		return "arm64"
	case macho.CpuArm:
		return "arm"
	case macho.CpuPpc64:
		return "ppc64"
	case macho.CpuPpc:
		return "ppc"
	default:
		return strings.ToLower(cpu.String())
	}
}

func peArch(machine uint16) string {
	switch machine {
	case pe.IMAGE_FILE_MACHINE_AMD64:
		return "amd64"
	case pe.IMAGE_FILE_MACHINE_I386:
		return "386"
	case pe.IMAGE_FILE_MACHINE_ARM64:
		return "arm64"
	case pe.IMAGE_FILE_MACHINE_ARMNT:
		return "arm"
	default:
		return fmt.Sprintf("pe-0x%04x", machine)
	}
}
