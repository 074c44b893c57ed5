package compiler

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/opmodel/alloyc/internal/core"
	"github.com/opmodel/alloyc/internal/output"
	"github.com/opmodel/alloyc/internal/sourcemap"
)

// BuildResult is the outcome of building one component.
type BuildResult struct {
	// File is the input path the component was built from.
	File string

	Component *Result
	Style     *StyleResult

	// Written lists the files written, in write order.
	Written []string

	Duration time.Duration
	Err      error
}

type buildJob struct {
	index int
	file  string
}

type indexedResult struct {
	index  int
	result BuildResult
}

// BuildAll compiles and writes every file's component and runtime style
// concurrently. Results are returned in input order. Jobs not yet started
// when ctx is canceled fail with ctx.Err(); a failed job writes nothing.
func (c *Compiler) BuildAll(ctx context.Context, files []string) []BuildResult {
	results := make([]BuildResult, len(files))
	if len(files) == 0 {
		return results
	}

	workers := c.opts.Workers
	if workers <= 0 || workers > len(files) {
		workers = len(files)
	}
	output.Debug("building components", "count", len(files), "workers", workers)

	jobs := make(chan buildJob, len(files))
	done := make(chan indexedResult, len(files))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				var r BuildResult
				select {
				case <-ctx.Done():
					r = BuildResult{File: job.file, Err: ctx.Err()}
				default:
					r = c.build(job.file)
				}
				done <- indexedResult{index: job.index, result: r}
			}
		}()
	}

	for i, f := range files {
		jobs <- buildJob{index: i, file: f}
	}
	close(jobs)

	go func() {
		wg.Wait()
		close(done)
	}()

	for r := range done {
		results[r.index] = r.result
	}

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
		}
	}
	output.Debug("build complete", "components", len(files), "failed", failed)
	return results
}

// build compiles and writes one component.
func (c *Compiler) build(file string) BuildResult {
	start := time.Now()
	r := BuildResult{File: file}

	r.Component, r.Err = c.CompileComponent(CompileOptions{File: file})
	if r.Err == nil {
		r.Style, r.Err = c.CompileStyle(CompileOptions{File: file})
	}
	if r.Err == nil {
		r.Written, r.Err = c.Write(r.Component, r.Style)
	}
	if r.Err != nil {
		r.Component, r.Style, r.Written = nil, nil, nil
	}
	r.Duration = time.Since(start)
	return r
}

// Discover lists one source file per component of the app and its widgets,
// preferring the view. Files in another platform's folder are ignored.
func (c *Compiler) Discover() ([]string, error) {
	roots := []string{c.opts.AppDir}
	for _, w := range c.resolver.Widgets() {
		roots = append(roots, w.Dir)
	}

	seen := make(map[string]bool)
	var files []string
	for _, root := range roots {
		for _, role := range []core.Role{core.RoleView, core.RoleController} {
			dir := filepath.Join(root, role.Dir())
			err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
				if err != nil {
					if os.IsNotExist(err) && p == dir {
						return filepath.SkipDir
					}
					return err
				}
				if d.IsDir() {
					if p != dir && c.foreignPlatformDir(dir, p) {
						return filepath.SkipDir
					}
					return nil
				}
				if filepath.Ext(p) != "."+role.Ext() {
					return nil
				}
				meta, err := c.resolver.ResolveMeta(p)
				if err != nil {
					return err
				}
				if !seen[meta.CacheIdentifier] {
					seen[meta.CacheIdentifier] = true
					files = append(files, p)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	sort.Strings(files)
	return files, nil
}

// foreignPlatformDir reports whether p is a top-level platform folder below
// dir for a platform other than the build platform.
func (c *Compiler) foreignPlatformDir(dir, p string) bool {
	rel := relPath(dir, p)
	if strings.ContainsRune(rel, filepath.Separator) || !core.IsPlatformFolder(rel) {
		return false
	}
	for _, pl := range core.Platforms {
		if pl.Name == c.opts.Platform && (rel == pl.Name || rel == pl.TitaniumFolder) {
			return false
		}
	}
	return true
}

// Write stores a compiled component and its runtime style below the output
// directory. With source maps enabled, the map is written next to the
// component and linked from it.
func (c *Compiler) Write(res *Result, st *StyleResult) ([]string, error) {
	var written []string

	if res != nil {
		path := res.Meta.Files.Component
		code := res.Code
		if c.opts.SourceMap && res.Map != nil {
			data, err := res.Map.JSON()
			if err != nil {
				return written, err
			}
			mapPath := path + ".map"
			if err := writeFile(mapPath, data); err != nil {
				return written, err
			}
			written = append(written, mapPath)
			code += "\n" + sourcemap.Comment(filepath.Base(mapPath))
		}
		if err := writeFile(path, []byte(code)); err != nil {
			return written, err
		}
		written = append(written, path)
	}

	if st != nil {
		path := st.Meta.Files.RuntimeStyle
		if err := writeFile(path, []byte(st.Code)); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func writeFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Outputs lists the files written for each successfully built component,
// relative to the output directory, with their role and size.
func (c *Compiler) Outputs(results []BuildResult) []output.ComponentOutputs {
	var out []output.ComponentOutputs
	for _, r := range results {
		if r.Component == nil || len(r.Written) == 0 {
			continue
		}
		co := output.ComponentOutputs{Component: r.Component.Meta.CacheIdentifier}
		for _, p := range r.Written {
			f := output.OutputFile{Path: p, Role: role(p, r)}
			if rel, err := filepath.Rel(c.opts.OutputDir, p); err == nil {
				f.Path = filepath.ToSlash(rel)
			}
			if info, err := os.Stat(p); err == nil {
				f.Size = info.Size()
			}
			co.Files = append(co.Files, f)
		}
		out = append(out, co)
	}
	return out
}

func role(p string, r BuildResult) string {
	switch {
	case strings.HasSuffix(p, ".map"):
		return output.RoleSourceMap
	case r.Style != nil && p == r.Style.Meta.Files.RuntimeStyle:
		return output.RoleStyle
	default:
		return output.RoleController
	}
}
