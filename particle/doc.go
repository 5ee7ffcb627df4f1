// Package particle implements a color-target particle filter.
//
// A Population holds weighted point hypotheses over pixel coordinates.
// Each call to Step advances the population by one frame: particles are
// moved by their velocity, scored by similarity to the target color,
// pruned by an elitist rule (an absolute likelihood bar plus the top
// 1/KeepDivisor by rank), renormalized, and repopulated by Gaussian-radius
// diffusion around the survivors. Step then stamps the particles and a
// crosshair at their centroid into the frame.
//
// Selection is deterministic. Only diffusion draws random numbers, from a
// generator owned by the Population and seeded through New.
package particle
