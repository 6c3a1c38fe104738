// Package setdir moves an organized media set into its working directory:
//
//	{WorkDir}/{yyyy-MM-dd Title}/
//	    {MediaServerFolder}/<media-server video>
//	    {InternetFolder}/<internet videos>
//	    <images and master>
//
// Every mkdir and move is followed by a permission normalization. A failing
// move aborts the set; files already moved stay where they are and the next
// run picks them up from the set directory.
package setdir
