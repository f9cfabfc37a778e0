package stdlib

import (
	"os"
	"path/filepath"

	"github.com/ardnew/mung"

	"github.com/ardnew/hostscript/host"
	"github.com/ardnew/hostscript/lang"
)

// prefixList prepends item to the PATH-style list, keeping the elements
// accepted by keep.
func prefixList(list, item string, keep func(string) bool) string {
	delim := string(os.PathListSeparator)

	if keep == nil {
		return mung.Make(
			mung.WithSubjectItems(list),
			mung.WithDelim(delim),
			mung.WithPrefixItems(item),
		).String()
	}

	return mung.Make(
		mung.WithSubjectItems(list),
		mung.WithDelim(delim),
		mung.WithPrefixItems(item),
		mung.WithFilter(keep),
	).String()
}

// pathListType declares host.PathList, which edits PATH-style lists.
func (l *library) pathListType() *host.Type {
	return host.Define(name("PathList"),
		host.WithConst("separator", lang.Char(os.PathListSeparator)),

		host.WithStaticMethod("prefix", params(strParam, strParam), static(func(args []lang.Value) (lang.Value, error) {
			return lang.Str(prefixList(args[0].String(), args[1].String(), nil)), nil
		})),
		host.WithStaticMethod("prefixIf", params(strParam, strParam, fnParam), static(func(args []lang.Value) (lang.Value, error) {
			var failed error

			keep := func(elem string) bool {
				if failed != nil {
					return false
				}

				v, err := l.call(args[2], lang.Str(elem))
				if err != nil {
					failed = err

					return false
				}

				b, ok := v.(lang.Bool)
				if !ok {
					failed = ErrPredicate.With(kindAttr(v))

					return false
				}

				return bool(b)
			}

			out := prefixList(args[0].String(), args[1].String(), keep)
			if failed != nil {
				return nil, failed
			}

			return lang.Str(out), nil
		})),
		host.WithStaticMethod("prefixExisting", params(strParam, strParam), static(func(args []lang.Value) (lang.Value, error) {
			return lang.Str(prefixList(args[0].String(), args[1].String(), fileExists)), nil
		})),
	)
}

// pathType declares host.Path, lexical path helpers.
func (l *library) pathType() *host.Type {
	return host.Define(name("Path"),
		host.WithConst("separator", lang.Char(filepath.Separator)),

		host.WithStaticMethod("abs", params(strParam), static(func(args []lang.Value) (lang.Value, error) {
			return lang.Str(absPath(args[0].String())), nil
		})),
		host.WithStaticMethod("join", params(strParam, strParam), static(func(args []lang.Value) (lang.Value, error) {
			return lang.Str(filepath.Join(args[0].String(), args[1].String())), nil
		})),
		host.WithStaticMethod("rel", params(strParam, strParam), static(func(args []lang.Value) (lang.Value, error) {
			from, to := args[0].String(), args[1].String()

			p, err := filepath.Rel(absPath(from), absPath(to))
			if err != nil {
				return lang.Str(filepath.Join(from, to)), nil
			}

			return lang.Str(p), nil
		})),
		host.WithStaticMethod("base", params(strParam), static(func(args []lang.Value) (lang.Value, error) {
			return lang.Str(filepath.Base(args[0].String())), nil
		})),
		host.WithStaticMethod("dir", params(strParam), static(func(args []lang.Value) (lang.Value, error) {
			return lang.Str(filepath.Dir(args[0].String())), nil
		})),
	)
}

// fileType declares host.File, which queries the file system.
func (l *library) fileType() *host.Type {
	test := func(fn func(string) bool) host.Func {
		return static(func(args []lang.Value) (lang.Value, error) {
			return lang.Bool(fn(args[0].String())), nil
		})
	}

	return host.Define(name("File"),
		host.WithStaticMethod("exists", params(strParam), test(fileExists)),
		host.WithStaticMethod("isDir", params(strParam), test(fileIsDir)),
		host.WithStaticMethod("isRegular", params(strParam), test(fileIsRegular)),
		host.WithStaticMethod("isSymlink", params(strParam), test(fileIsSymlink)),
	)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !os.IsNotExist(err)
}

func fileIsDir(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.IsDir()
}

func fileIsRegular(path string) bool {
	info, err := os.Stat(path)

	return err == nil && info.Mode().IsRegular()
}

func fileIsSymlink(path string) bool {
	info, err := os.Lstat(path)

	return err == nil && info.Mode()&os.ModeSymlink != 0
}
