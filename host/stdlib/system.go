package stdlib

import (
	"bufio"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/ardnew/hostscript/host"
	"github.com/ardnew/hostscript/lang"
)

// systemType declares host.System. Output goes to the writer set by
// [WithOutput].
func (l *library) systemType() *host.Type {
	write := func(suffix string) host.Func {
		return static(func(args []lang.Value) (lang.Value, error) {
			s, _ := lang.Display(args[0])

			_, err := io.WriteString(l.out, s+suffix)

			return nil, err
		})
	}

	text := func(fn func() string) host.Func {
		return static(func([]lang.Value) (lang.Value, error) {
			return lang.Str(fn()), nil
		})
	}

	return host.Define(name("System"),
		host.WithStaticMethod("print", params(anyParam), write("")),
		host.WithStaticMethod("println", params(anyParam), write("\n")),
		host.WithStaticMethod("println", nil, static(func([]lang.Value) (lang.Value, error) {
			_, err := io.WriteString(l.out, "\n")

			return nil, err
		})),
		host.WithStaticMethod("getenv", params(strParam), static(func(args []lang.Value) (lang.Value, error) {
			if v, ok := l.getenv(args[0].String()); ok {
				return lang.Str(v), nil
			}

			return lang.Null{}, nil
		})),
		host.WithStaticMethod("nanoTime", nil, static(func([]lang.Value) (lang.Value, error) {
			return lang.Int64(time.Now().UnixNano()), nil
		})),
		host.WithStaticMethod("hostname", nil, text(hostname)),
		host.WithStaticMethod("shell", nil, text(shell)),
		host.WithStaticMethod("cwd", nil, text(cwd)),
		host.WithStaticMethod("platform", nil, text(func() string { return getPlatform().String() })),
		host.WithStaticMethod("target", nil, text(func() string { return getTarget().String() })),
	)
}

// target identifies an operating system and instruction set architecture.
type target struct {
	OS   string
	Arch string
}

func (t target) String() string { return t.OS + "/" + t.Arch }

// getTarget returns the host target using GNU GCC/LLVM naming conventions.
func getTarget() target {
	t := getPlatform()

	switch t.Arch {
	case "386":
		t.Arch = "i386"
	case "amd64":
		t.Arch = "x86_64"
	case "arm":
		if arm, ok := os.LookupEnv("GOARM"); ok {
			arm, _, _ = strings.Cut(arm, ",")
			switch strings.TrimSpace(arm) {
			case "5", "6", "7":
				t.Arch = "armv" + arm
			}
		}
	case "arm64":
		if t.OS != "darwin" {
			t.Arch = "aarch64"
		}
	case "mipsle":
		t.Arch = "mipsel"
	}

	return t
}

// getPlatform returns the host target using Go conventions.
func getPlatform() target {
	o, ok := os.LookupEnv("GOHOSTOS")
	if !ok {
		if o, ok = os.LookupEnv("GOOS"); !ok {
			o = runtime.GOOS
		}
	}

	a, ok := os.LookupEnv("GOHOSTARCH")
	if !ok {
		if a, ok = os.LookupEnv("GOARCH"); !ok {
			a = runtime.GOARCH
		}
	}

	return target{OS: o, Arch: a}
}

func hostname() string {
	h, err := os.Hostname()
	if err != nil {
		return ""
	}

	return h
}

// shell returns $SHELL, or the login shell of the current user from
// /etc/passwd.
func shell() string {
	if sh, ok := os.LookupEnv("SHELL"); ok {
		return sh
	}

	u, err := user.Current()
	if err != nil || u.Username == "" {
		return ""
	}

	f, err := os.Open("/etc/passwd")
	if err != nil {
		return ""
	}
	defer f.Close()

	s := bufio.NewScanner(f)
	for s.Scan() {
		e := strings.Split(s.Text(), ":")
		if len(e) > 6 && e[0] == u.Username {
			return e[6]
		}
	}

	return ""
}

func cwd() string {
	dir, err := os.Getwd()
	if err != nil {
		return absPath(".")
	}

	return dir
}

func absPath(path string) string {
	p, err := filepath.Abs(path)
	if err != nil {
		return path
	}

	return p
}
