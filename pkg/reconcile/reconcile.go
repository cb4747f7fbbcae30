// SPDX-License-Identifier: MPL-2.0

package reconcile

import (
	"sort"

	"github.com/drvkit/drvkit/internal/semver"
	"github.com/drvkit/drvkit/pkg/arch"
	"github.com/drvkit/drvkit/pkg/descriptor"
	"github.com/drvkit/drvkit/pkg/kit"
)

type (
	// LocateFunc discovers the installed kit. Reconcile calls it at most once.
	LocateFunc func() (*kit.Installation, error)

	// Options carries per-invocation inputs that are not part of a descriptor.
	Options struct {
		// VerifySignature requests the signature verification stage.
		VerifySignature bool
		// SampleClass lists packages whose INX declares the sample device class.
		SampleClass map[string]bool
	}

	// ResolvedConfig is the final configuration of one package.
	ResolvedConfig struct {
		Package   string
		Model     descriptor.DriverModel
		Framework descriptor.Framework
		// Version is the selected framework version; zero unless Framework is set.
		Version semver.Version
		Arch    arch.Arch

		InstallRoot string
		KitVersion  string
		// KitBuildNumber is zero when the kit version is unrecorded.
		KitBuildNumber uint64

		VerifySignature bool
		SampleClass     bool
	}

	// Resolution is the outcome of reconciling a whole project.
	Resolution struct {
		// Configs holds one entry per resolved package, ordered by package name.
		Configs []ResolvedConfig
		// Failed maps every driver package left unresolved to the error that
		// stopped it. Such packages have no entry in Configs.
		Failed map[string]error
		// Model is the agreed model, NONE when no driver package was resolved.
		Model descriptor.DriverModel
		// Version is the agreed framework version, if any.
		Version semver.Version
		// Installation is nil when the kit was never consulted.
		Installation *kit.Installation
	}
)

// IsNoop reports whether the package does no driver work.
func (c ResolvedConfig) IsNoop() bool { return !c.Model.IsDriver() }

// Config returns the resolved config of pkg.
func (r *Resolution) Config(pkg string) (ResolvedConfig, bool) {
	for _, c := range r.Configs {
		if c.Package == pkg {
			return c, true
		}
	}
	return ResolvedConfig{}, false
}

// Reconcile resolves descriptors against the kit returned by locate. The kit is
// only located when at least one package requests driver work.
//
// Packages without a driver always get a no-op config. When the driver
// packages cannot be resolved, Reconcile returns the error together with a
// Resolution holding those no-op configs and every driver package in Failed.
func Reconcile(descs []descriptor.Descriptor, locate LocateFunc, opts Options) (*Resolution, error) {
	sorted := make([]descriptor.Descriptor, len(descs))
	copy(sorted, descs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Package < sorted[j].Package })

	res := &Resolution{Model: descriptor.ModelNone}
	var drivers []descriptor.Descriptor
	for _, d := range sorted {
		if d.Model().IsDriver() {
			drivers = append(drivers, d)
			continue
		}
		res.Configs = append(res.Configs, ResolvedConfig{Package: d.Package, Model: descriptor.ModelNone, Arch: d.Arch})
	}
	if len(drivers) == 0 {
		return res, nil
	}

	configs, err := res.resolveDrivers(drivers, locate, opts)
	if err != nil {
		res.Failed = make(map[string]error, len(drivers))
		for _, d := range drivers {
			res.Failed[d.Package] = err
		}
		return res, err
	}

	res.Configs = append(res.Configs, configs...)
	sort.SliceStable(res.Configs, func(i, j int) bool { return res.Configs[i].Package < res.Configs[j].Package })
	return res, nil
}

// resolveDrivers agrees on a model, locates the kit and selects the framework
// version shared by drivers.
func (r *Resolution) resolveDrivers(drivers []descriptor.Descriptor, locate LocateFunc, opts Options) ([]ResolvedConfig, error) {
	model, err := agreeOnModel(drivers)
	if err != nil {
		return nil, err
	}

	inst, err := locate()
	if err != nil {
		return nil, err
	}
	r.Installation = inst

	var version semver.Version
	fw, hasFramework := model.Framework()
	if hasFramework {
		if version, err = selectVersion(fw, drivers, inst); err != nil {
			return nil, err
		}
	}
	r.Model = model
	r.Version = version

	build, _ := inst.BuildNumber()
	configs := make([]ResolvedConfig, len(drivers))
	for i, d := range drivers {
		c := ResolvedConfig{
			Package:         d.Package,
			Model:           model,
			Arch:            d.Arch,
			InstallRoot:     inst.Root,
			KitVersion:      inst.Version,
			KitBuildNumber:  build,
			VerifySignature: opts.VerifySignature,
			SampleClass:     opts.SampleClass[d.Package],
		}
		if hasFramework {
			c.Framework = fw
			c.Version = version
		}
		configs[i] = c
	}
	return configs, nil
}

// agreeOnModel returns the single model shared by all driver packages.
func agreeOnModel(drivers []descriptor.Descriptor) (descriptor.DriverModel, error) {
	byModel := make(map[descriptor.DriverModel][]string)
	for _, d := range drivers {
		m := d.Model()
		byModel[m] = append(byModel[m], d.Package)
	}

	if len(byModel) > 1 {
		var groups []ModelGroup
		for _, m := range descriptor.Models() {
			if pkgs, ok := byModel[m]; ok {
				groups = append(groups, ModelGroup{Model: m, Packages: pkgs})
			}
		}
		return "", &ReconcileError{Kind: KindMixedDriverModel, Groups: groups}
	}
	return drivers[0].Model(), nil
}

// selectVersion picks the highest installed version satisfying every driver's requirement.
func selectVersion(fw descriptor.Framework, drivers []descriptor.Descriptor, inst *kit.Installation) (semver.Version, error) {
	available, err := inst.Available(fw)
	if err != nil {
		return semver.Version{}, err
	}
	names := make([]string, len(available))
	for i, v := range available {
		names[i] = v.String()
	}

	reqs := make([]descriptor.Requirement, len(drivers))
	for i, d := range drivers {
		req, _ := d.Requirement()
		reqs[i] = req
		if len(matching(available, req)) == 0 {
			return semver.Version{}, &ReconcileError{
				Kind:        KindNoCompatibleVersion,
				Framework:   fw,
				PackageA:    d.Package,
				RangeA:      req.String(),
				Available:   names,
				InstallRoot: inst.Root,
			}
		}
	}

	candidates := available
	for k, req := range reqs {
		next := matching(candidates, req)
		if len(next) > 0 {
			candidates = next
			continue
		}
		j := conflictPartner(available, reqs[:k], req)
		return semver.Version{}, &ReconcileError{
			Kind:        KindVersionConflict,
			Framework:   fw,
			PackageA:    drivers[j].Package,
			RangeA:      reqs[j].String(),
			PackageB:    drivers[k].Package,
			RangeB:      req.String(),
			Available:   names,
			InstallRoot: inst.Root,
		}
	}

	best, _ := semver.MaxSatisfying(candidates)
	return best, nil
}

// conflictPartner returns the first earlier requirement that shares no
// installed version with req, falling back to the first one when the conflict
// only appears across three or more packages.
func conflictPartner(available []semver.Version, earlier []descriptor.Requirement, req descriptor.Requirement) int {
	for j, other := range earlier {
		if len(matching(available, other.Narrow(req))) == 0 {
			return j
		}
	}
	return 0
}

func matching(vs []semver.Version, req descriptor.Requirement) []semver.Version {
	var out []semver.Version
	for _, v := range vs {
		if req.Matches(v) {
			out = append(out, v)
		}
	}
	return out
}
