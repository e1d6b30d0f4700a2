package shader

// BlitVertex draws a full-screen quad from clip-space positions and flips the
// texture vertically so row 0 of the frame lands at the top of the window.
const BlitVertex = `
#version 410 core

layout (location = 0) in vec2 aPos;
layout (location = 1) in vec2 aUV;

out vec2 vUV;

void main() {
	gl_Position = vec4(aPos, 0.0, 1.0);
	vUV = vec2(aUV.x, 1.0 - aUV.y);
}
`

// BlitFragment samples the frame texture.
const BlitFragment = `
#version 410 core

in vec2 vUV;
out vec4 FragColor;

uniform sampler2D uFrame;

void main() {
	FragColor = texture(uFrame, vUV);
}
`

// BlitQuad is two triangles covering clip space: position (x, y) then uv.
var BlitQuad = []float32{
	-1, -1, 0, 0,
	1, -1, 1, 0,
	1, 1, 1, 1,
	-1, -1, 0, 0,
	1, 1, 1, 1,
	-1, 1, 0, 1,
}
