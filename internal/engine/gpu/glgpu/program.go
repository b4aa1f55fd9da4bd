package glgpu

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Program is a linked GL shader program.
type Program struct {
	id uint32
}

// Use makes the program current.
func (p *Program) Use() {
	gl.UseProgram(p.id)
}

// UniformLocation returns -1 if the uniform is not found or inactive.
func (p *Program) UniformLocation(name string) int32 {
	return gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
}

// UniformBlockIndex looks up a named uniform block.
func (p *Program) UniformBlockIndex(name string) (uint32, bool) {
	idx := gl.GetUniformBlockIndex(p.id, gl.Str(name+"\x00"))
	if idx == gl.INVALID_INDEX {
		return 0, false
	}
	return idx, true
}

// BindUniformBlock attaches block index to a uniform buffer binding point.
func (p *Program) BindUniformBlock(index, binding uint32) {
	gl.UniformBlockBinding(p.id, index, binding)
}

func (p *Program) SetInt(loc int32, v int32) {
	gl.Uniform1i(loc, v)
}

func (p *Program) SetFloat(loc int32, v float32) {
	gl.Uniform1f(loc, v)
}

func (p *Program) SetVec3(loc int32, v [3]float32) {
	gl.Uniform3f(loc, v[0], v[1], v[2])
}

func (p *Program) SetVec4(loc int32, v [4]float32) {
	gl.Uniform4f(loc, v[0], v[1], v[2], v[3])
}

func (p *Program) SetMat4(loc int32, m [16]float32) {
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

// Release deletes the program.
func (p *Program) Release() {
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}

// compileProgram compiles vertex and fragment shaders and links them into a program.
func compileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vertShader, err := compileShader(vertexSrc, gl.VERTEX_SHADER, "vertex")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vertShader)

	fragShader, err := compileShader(fragmentSrc, gl.FRAGMENT_SHADER, "fragment")
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fragShader)

	program := gl.CreateProgram()
	gl.AttachShader(program, vertShader)
	gl.AttachShader(program, fragShader)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetProgramInfoLog(program, logLen, nil, &log[0])
		gl.DeleteProgram(program)
		return 0, fmt.Errorf("link: %s", string(log))
	}

	return program, nil
}

// compileShader compiles a single shader stage.
func compileShader(source string, shaderType uint32, stage string) (uint32, error) {
	shader := gl.CreateShader(shaderType)
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLen)
		log := make([]byte, logLen+1)
		gl.GetShaderInfoLog(shader, logLen, nil, &log[0])
		gl.DeleteShader(shader)
		return 0, fmt.Errorf("%s shader: %s", stage, string(log))
	}

	return shader, nil
}
