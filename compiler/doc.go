/*

Process of code generation

Expression Graph (ir) ->
	validate ->
	schedule + lower (back) ->
C Translation Unit + Header + Driver + Makefile ->
	cc ->
Standalone Executable

*/
package compiler
