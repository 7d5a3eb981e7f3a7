package manifest

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclsimple"

	"github.com/goplus/xmakegen/internal/env"
	"github.com/goplus/xmakegen/pkgs/buildinfo"
)

// HCL manifests use blocks instead of nested maps:
//
//	configuration {
//	  settings {
//	    os         = "Linux"
//	    arch       = "x86_64"
//	    build_type = "Release"
//	  }
//	  host "zlib/1.3.1" {
//	    package_folder = "/p/zlib"
//	    includedirs    = ["include"]
//	    libs           = ["z"]
//	    component "core" {
//	      requires = []
//	      libs     = ["zcore"]
//	    }
//	  }
//	}
type hclManifest struct {
	Configurations []hclConfiguration `hcl:"configuration,block"`
}

type hclConfiguration struct {
	Settings *hclSettings     `hcl:"settings,block"`
	Host     []hclRequirement `hcl:"host,block"`
	Test     []hclRequirement `hcl:"test,block"`
	Build    []hclRequirement `hcl:"build,block"`
}

type hclSettings struct {
	OS        string `hcl:"os,optional"`
	Arch      string `hcl:"arch,optional"`
	BuildType string `hcl:"build_type,optional"`
}

type hclRequirement struct {
	Ref           string         `hcl:"ref,label"`
	PackageFolder string         `hcl:"package_folder,optional"`
	Components    []hclComponent `hcl:"component,block"`
	Remain        hcl.Body       `hcl:",remain"`
}

type hclComponent struct {
	Name     string   `hcl:"name,label"`
	Requires []string `hcl:"requires,optional"`
	Remain   hcl.Body `hcl:",remain"`
}

// hclInfo mirrors buildinfo.Info field by field so one converts to the other.
type hclInfo struct {
	IncludeDirs   []string `hcl:"includedirs,optional"`
	LibDirs       []string `hcl:"libdirs,optional"`
	BinDirs       []string `hcl:"bindirs,optional"`
	ResDirs       []string `hcl:"resdirs,optional"`
	SrcDirs       []string `hcl:"srcdirs,optional"`
	FrameworkDirs []string `hcl:"frameworkdirs,optional"`

	Libs            []string `hcl:"libs,optional"`
	Frameworks      []string `hcl:"frameworks,optional"`
	SystemLibs      []string `hcl:"system_libs,optional"`
	Defines         []string `hcl:"defines,optional"`
	CXXFlags        []string `hcl:"cxxflags,optional"`
	CFlags          []string `hcl:"cflags,optional"`
	SharedLinkFlags []string `hcl:"sharedlinkflags,optional"`
	ExeLinkFlags    []string `hcl:"exelinkflags,optional"`
}

func decodeHCL(file string, data []byte, m *Manifest) error {
	var raw hclManifest
	if err := hclsimple.Decode(file, data, nil, &raw); err != nil {
		return err
	}
	for _, rc := range raw.Configurations {
		var c Configuration
		if rc.Settings != nil {
			c.Settings = env.Settings(*rc.Settings)
		}
		var err error
		if c.Requires.Host, err = decodeHCLRequirements(rc.Host); err != nil {
			return err
		}
		if c.Requires.Test, err = decodeHCLRequirements(rc.Test); err != nil {
			return err
		}
		if c.Requires.Build, err = decodeHCLRequirements(rc.Build); err != nil {
			return err
		}
		m.Configurations = append(m.Configurations, c)
	}
	return nil
}

func decodeHCLRequirements(raw []hclRequirement) ([]Requirement, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	reqs := make([]Requirement, len(raw))
	for n, rr := range raw {
		info, err := decodeHCLInfo(rr.Remain)
		if err != nil {
			return nil, err
		}
		req := Requirement{
			Ref:           rr.Ref,
			PackageFolder: rr.PackageFolder,
			CppInfo:       buildinfo.CppInfo{Info: info},
		}
		for _, rc := range rr.Components {
			info, err := decodeHCLInfo(rc.Remain)
			if err != nil {
				return nil, err
			}
			req.CppInfo.Components = append(req.CppInfo.Components, buildinfo.Component{
				Name:     rc.Name,
				Requires: rc.Requires,
				Info:     info,
			})
		}
		reqs[n] = req
	}
	return reqs, nil
}

func decodeHCLInfo(body hcl.Body) (buildinfo.Info, error) {
	var info hclInfo
	if body != nil {
		if diags := gohcl.DecodeBody(body, nil, &info); diags.HasErrors() {
			return buildinfo.Info{}, diags
		}
	}
	return buildinfo.Info(info), nil
}
