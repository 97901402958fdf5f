// Package sink turns committed scene frames into documents.
//
// # SVG Output
//
// [RenderSVG] writes one frame as a self-contained SVG. Every element is
// drawn at the start of its transition and carries SMIL animations that
// move it to the end state over the frame's duration, so opening the file
// in a browser replays the cycle:
//
//   - nodes are g.node groups translated by animateTransform
//   - links are path.link elements whose d attribute is animated
//   - exiting pills shrink to 1e-6 and are hidden once the transition ends
//
// With [WithStatic] the frame's resting state is drawn without animation,
// which is what PNG and PDF conversion need.
//
// Nodes carry a data-id attribute with the tree node ID, the hook the
// interactive page uses to send toggles back to the server.
//
// # HTML Output
//
// [RenderHTML] wraps a frame in a page that posts clicks on g.node
// elements to the view endpoints and swaps in the SVG returned for the
// next frame.
package sink
