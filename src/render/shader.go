package render

import (
	"log"
	"os"
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vulkan-go/vulkan"
)

// LoadShader reads a SPIR-V binary and creates a shader module from it. A
// missing file is logged and yields a null module; whoever builds a pipeline
// from it fails then.
func LoadShader(device vulkan.Device, path string) (vulkan.ShaderModule, error) {
	code, err := os.ReadFile(path)
	if err != nil {
		log.Printf("shader: failed to read %s: %v", path, err)
		return vulkan.NullShaderModule, nil
	}
	if len(code) == 0 || len(code)%4 != 0 {
		return vulkan.NullShaderModule, errors.Newf("shader %s: size %d is not a multiple of 4", path, len(code))
	}

	words := unsafe.Slice((*uint32)(unsafe.Pointer(&code[0])), len(code)/4)
	var module vulkan.ShaderModule
	ret := vulkan.CreateShaderModule(device, &vulkan.ShaderModuleCreateInfo{
		SType:    vulkan.StructureTypeShaderModuleCreateInfo,
		CodeSize: uint(len(code)),
		PCode:    words,
	}, nil, &module)
	if err := NewError(ret); err != nil {
		return vulkan.NullShaderModule, errors.Wrapf(err, "create shader module %s", path)
	}
	return module, nil
}

func DestroyShader(device vulkan.Device, module vulkan.ShaderModule) {
	if module != vulkan.NullShaderModule {
		vulkan.DestroyShaderModule(device, module, nil)
	}
}
